// Command vaultadmin manages administrator accounts directly against the
// database. It creates admin users (prompting for the password without echo)
// and promotes or demotes existing accounts.
//
// Usage:
//
//	vaultadmin create -email root@example.com -name "Root"
//	vaultadmin promote -email alice@example.com
//	vaultadmin demote -email alice@example.com
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/safedrive/safedrive/internal/common"
	"github.com/safedrive/safedrive/internal/server/config"
	"github.com/safedrive/safedrive/internal/server/models"
	"github.com/safedrive/safedrive/internal/server/repositories/repomanager"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name (create only)")
	fs.Parse(os.Args[2:])

	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		os.Exit(2)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	manager := repomanager.NewPostgresRepositoryManager()

	switch cmd {
	case "create":
		err = create(ctx, db, manager, *email, *name)
	case "promote":
		err = setRole(ctx, db, manager, *email, models.RoleAdmin)
	case "demote":
		err = setRole(ctx, db, manager, *email, models.RoleUser)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fatal(err)
	}
}

func create(ctx context.Context, db *sql.DB, manager repomanager.RepositoryManager, email, name string) error {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u, err := manager.Users(db).Create(ctx, &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created admin %s (%s)\n", u.Email, u.ID)
	return nil
}

func setRole(ctx context.Context, db *sql.DB, manager repomanager.RepositoryManager, email string, role models.Role) error {
	repo := manager.Users(db)

	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := repo.SetRole(ctx, u.ID, role); err != nil {
		return err
	}

	fmt.Printf("%s is now %s\n", u.Email, role)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: vaultadmin <create|promote|demote> -email <email> [-name <name>]")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
