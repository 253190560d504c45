package migrations

import (
	"io/fs"

	notices "github.com/goliatone/go-notices"
)

func init() {
	coreFS, err := fs.Sub(notices.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
