// Command seed loads patient and provider fixtures from a YAML file into the
// database. It is meant for fresh environments; it refuses to write without
// --confirm and supports --dry-run to preview the plan.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	fixturePath = flag.String("fixtures", "cmd/seed/fixtures.yaml", "Path to the YAML fixture file")
	dsn         = flag.String("dsn", "", "Postgres DSN (default: built from DB_HOST/DB_USER/DB_PASSWORD/DB_NAME)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to perform writes")
)

type Fixtures struct {
	Patients []struct {
		FirstName   string `yaml:"first_name"`
		LastName    string `yaml:"last_name"`
		DateOfBirth string `yaml:"date_of_birth"`
		Gender      string `yaml:"gender"`
		Language    string `yaml:"language"`
	} `yaml:"patients"`
	Providers []struct {
		FirstName  string `yaml:"first_name"`
		LastName   string `yaml:"last_name"`
		Specialty  string `yaml:"specialty"`
		Email      string `yaml:"email"`
		Phone      string `yaml:"phone"`
		DateJoined string `yaml:"date_joined"`
	} `yaml:"providers"`
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *dsn == "" {
		*dsn = envDSN()
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DB_HOST/DB_USER/DB_PASSWORD/DB_NAME not set")
	}

	fixtures, err := loadFixtures(*fixturePath)
	if err != nil {
		fatalf("fixtures: %v", err)
	}

	fmt.Printf("Loaded %d patients and %d providers from %s\n",
		len(fixtures.Patients), len(fixtures.Providers), *fixturePath)

	if *dryRun {
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	for _, p := range fixtures.Patients {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO patients (first_name, last_name, date_of_birth, gender, language) VALUES ($1, $2, $3, $4, $5)`,
			p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Language)
		if err != nil {
			fatalf("insert patient %s %s: %v", p.FirstName, p.LastName, err)
		}
	}

	for _, p := range fixtures.Providers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO providers (first_name, last_name, specialty, email, phone, date_joined) VALUES ($1, $2, $3, $4, $5, $6)`,
			p.FirstName, p.LastName, p.Specialty, p.Email, p.Phone, p.DateJoined)
		if err != nil {
			fatalf("insert provider %s %s: %v", p.FirstName, p.LastName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}

	fmt.Println("Seeding complete.")
}

func loadFixtures(path string) (Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, err
	}

	var fixtures Fixtures
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return Fixtures{}, fmt.Errorf("parse %s: %w", path, err)
	}

	for i, p := range fixtures.Patients {
		if p.FirstName == "" || p.LastName == "" || p.DateOfBirth == "" {
			return Fixtures{}, fmt.Errorf("patient %d: first_name, last_name, date_of_birth are required", i)
		}
	}
	for i, p := range fixtures.Providers {
		if p.FirstName == "" || p.LastName == "" || p.Specialty == "" {
			return Fixtures{}, fmt.Errorf("provider %d: first_name, last_name, specialty are required", i)
		}
	}

	return fixtures, nil
}

func envDSN() string {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	if host == "" || user == "" || password == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable", host, user, password, name)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
