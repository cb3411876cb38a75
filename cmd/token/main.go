// token emite un JWT para probar la API en local.
//
// Uso: go run ./cmd/token -user <id> -role operator|viewer
// Lee JWT_SECRET, JWT_ISSUER y JWT_EXPIRATION_MINUTES de la misma configuración que la API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/container-tracker/pkg/config"
	"github.com/jhoicas/container-tracker/pkg/jwt"
)

func main() {
	user := flag.String("user", "local-operator", "ID del usuario")
	role := flag.String("role", jwt.RoleOperator, "rol: operator o viewer")
	flag.Parse()

	if *role != jwt.RoleOperator && *role != jwt.RoleViewer {
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", *role)
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
