package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yungbote/fotherbys-backend/internal/app"
)

func main() {
	var email, name, password string
	flag.StringVar(&email, "email", "", "staff email address")
	flag.StringVar(&name, "name", "Staff", "display name")
	flag.StringVar(&password, "password", "", "initial password (or STAFF_PASSWORD)")
	flag.Parse()
	_ = godotenv.Load()

	if strings.TrimSpace(password) == "" {
		password = os.Getenv("STAFF_PASSWORD")
	}
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		fmt.Fprintln(os.Stderr, "usage: create-staff -email <email> -password <password> [-name <name>]")
		os.Exit(2)
	}

	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	client, created, err := a.Services.Auth.EnsureStaff(ctx, email, name, password)
	if err != nil {
		a.Log.Error("create-staff failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	if created {
		fmt.Printf("created staff account %s (%s)\n", client.Email, client.ID)
		return
	}
	fmt.Printf("promoted existing client %s (%s) to staff\n", client.Email, client.ID)
}
