// setup_admin provisiona el primer usuario super_admin por consola, como
// alternativa al formulario web de /setup. Solo funciona mientras no exista
// ningún perfil registrado; después falla con "sistema ya inicializado".
//
// Uso: go run ./cmd/setup_admin
// Lee la configuración de PostgreSQL de las mismas variables de entorno que la API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/setup"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/infrastructure/postgres"
	"github.com/comsanjuan/recibos-admin-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	userRepo := postgres.NewUserProfileRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	gate := setup.NewGate(userRepo, auditRepo)

	if gate.CheckInitialization(ctx) {
		fmt.Fprintln(os.Stderr, "El sistema ya está inicializado: existe al menos un usuario registrado.")
		os.Exit(1)
	}

	fmt.Println("Configuración inicial — Panel Administrativo ComSanJuan")
	fmt.Println("=======================================================")
	fmt.Println()
	fmt.Println("Datos del primer administrador (rol super_admin):")

	in := bufio.NewReader(os.Stdin)
	req := dto.FirstAdminRequest{
		Email:      ask(in, "Email: "),
		Password:   ask(in, "Contraseña (mínimo 8 caracteres): "),
		Name:       ask(in, "Nombre completo: "),
		Phone:      ask(in, "Teléfono (opcional): "),
		Department: ask(in, "Departamento (opcional): "),
		Notes:      "Usuario administrador inicial creado por consola",
	}

	fmt.Println()
	fmt.Println("Creando usuario administrador...")

	user, err := gate.CreateFirstAdmin(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			fmt.Fprintln(os.Stderr, "El sistema ya fue inicializado por otro proceso.")
		case errors.Is(err, domain.ErrInvalidInput):
			fmt.Fprintf(os.Stderr, "Datos inválidos: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Configuración completada.")
	fmt.Printf("  Usuario: %s\n", user.Email)
	fmt.Printf("  Rol:     %s\n", user.Role)
	fmt.Printf("  ID:      %s\n", user.ID)
	fmt.Println()
	fmt.Println("Ya puedes iniciar sesión en el panel con estas credenciales.")
}

func ask(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
