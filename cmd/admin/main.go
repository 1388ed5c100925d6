// Command admin manages IdeaHub accounts from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"ideahub/internal/cache"
	"ideahub/internal/config"
	"ideahub/internal/database"
	"ideahub/internal/models"
	"ideahub/internal/repository"
)

const usage = `Usage:
  admin set-role <user_id> <DEVELOPER|REGULAR>   change a user's role
  admin list-users [-limit N] [-offset N]        list accounts`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		exitf("load config: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		exitf("connect database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	// Connect the cache so role changes evict the API's cached user rows.
	if rdb := cache.InitRedis(cfg.RedisURL); rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	users := repository.NewUserRepository(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "set-role":
		err = setRole(ctx, users, os.Args[2:])
	case "list-users":
		err = listUsers(ctx, users, os.Args[2:])
	default:
		err = fmt.Errorf("unknown command %q\n%s", os.Args[1], usage)
	}
	if err != nil {
		exitf("%v", err)
	}
}

func setRole(ctx context.Context, users repository.UserRepository, args []string) error {
	if len(args) != 2 {
		return errors.New(usage)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	role := models.Role(strings.ToUpper(strings.TrimSpace(args[1])))
	if !role.Valid() {
		return fmt.Errorf("role must be DEVELOPER or REGULAR, got %q", args[1])
	}

	if err := users.SetRole(ctx, uint(id), role); err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return fmt.Errorf("user %d not found", id)
		}
		return err
	}
	fmt.Printf("User %d is now %s. The change applies from their next login.\n", id, role)
	return nil
}

func listUsers(ctx context.Context, users repository.UserRepository, args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	limit := fs.Int("limit", 50, "maximum rows")
	offset := fs.Int("offset", 0, "rows to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := users.List(ctx, *limit, *offset)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No users found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tPUBLIC\tCREATED")
	for _, u := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n", u.ID, u.Name, u.Email, u.Role, u.IsPublic, u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
