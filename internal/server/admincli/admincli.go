// Package admincli implements the server-side maintenance commands run by
// cmd/admin.
package admincli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/server/auth"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/users"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetPassword prints prompt to w and reads a password from the terminal
// without echo.
func GetPassword(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// PromptNewPassword asks for a password twice and checks both entries match.
func PromptNewPassword(w io.Writer) (string, error) {
	pw, err := GetPassword(w, "Enter password: ")
	if err != nil {
		return "", err
	}
	if len(pw) < auth.MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, auth.MinPasswordLength)
	}
	again, err := GetPassword(w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}
	return pw, nil
}

// CreateAdmin promotes the user with email to a confirmed admin, creating
// the account when it does not exist. The password is only asked for new
// accounts.
func CreateAdmin(ctx context.Context, repo users.Repository, email string, password func() (string, error), w io.Writer) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}

	u, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		roles, err := models.NormalizeRoles(append(u.Roles, models.RoleAdmin))
		if err != nil {
			return nil, err
		}
		u.Roles = roles
		u.EmailConfirmed = true
		u.ConfirmationToken = ""
		u.Blocked = false
		if err := repo.Update(ctx, u); err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "User %s promoted to admin\n", u.Email)
		return u, nil

	case errors.Is(err, common.ErrorNotFound):
		pw, err := password()
		if err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(pw)
		if err != nil {
			return nil, err
		}
		u = &models.User{
			ID:               uuid.NewString(),
			Email:            email,
			PasswordHash:     hash,
			Roles:            []string{models.RoleUser, models.RoleAdmin},
			EmailConfirmed:   true,
			DailyCalorieGoal: models.DefaultCalorieGoal,
			DailyWaterGoalML: models.DefaultWaterGoalML,
			CreatedAt:        time.Now().UTC(),
		}
		if err := repo.Create(ctx, u); err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "Admin %s created\n", u.Email)
		return u, nil

	default:
		return nil, err
	}
}

// Command is a parsed cmd/admin invocation.
type Command struct {
	Name  string
	Email string
}

// ParseArgs parses "create-admin -email <e>".
func ParseArgs(args []string) (*Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: admin create-admin -email <email>")
	}
	switch args[0] {
	case "create-admin":
		fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		email := fs.String("email", "", "email of the admin account")
		if err := fs.Parse(args[1:]); err != nil {
			return nil, err
		}
		if *email == "" {
			return nil, fmt.Errorf("create-admin: -email is required")
		}
		return &Command{Name: args[0], Email: *email}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", args[0])
	}
}
