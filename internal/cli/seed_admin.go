package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type seedAdminCmd struct {
	username string
	password string
	name     string
}

func (*seedAdminCmd) Name() string     { return "seed-admin" }
func (*seedAdminCmd) Synopsis() string { return "crea o corrige el usuario administrador" }
func (*seedAdminCmd) Usage() string {
	return `siloctl seed-admin [-username <u>] [-password <p>] [-name <n>]

  Crea el administrador si no existe. Si existe le devuelve el rol admin y
  rehashea una contraseña guardada en texto plano. Los flags reemplazan a
  ADMIN_USERNAME, ADMIN_PASSWORD y ADMIN_NAME.
`
}

func (s *seedAdminCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.username, "username", "", "Nombre de usuario del administrador.")
	f.StringVar(&s.password, "password", "", "Contraseña inicial.")
	f.StringVar(&s.name, "name", "", "Nombre visible.")
}

func (s *seedAdminCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv(ctx)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	admin := e.cfg.Admin
	if s.username != "" {
		admin.Username = s.username
	}
	if s.password != "" {
		admin.Password = s.password
	}
	if s.name != "" {
		admin.Name = s.name
	}
	if !admin.Complete() {
		return fail(errors.New("faltan usuario o contraseña del administrador"))
	}

	changed, err := e.svc.Auth.EnsureAdmin(ctx, admin)
	if err != nil {
		return fail(err)
	}
	if changed {
		fmt.Fprintf(os.Stdout, "administrador %s listo\n", admin.Username)
	} else {
		fmt.Fprintf(os.Stdout, "administrador %s sin cambios\n", admin.Username)
	}
	return subcommands.ExitSuccess
}
