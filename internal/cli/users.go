package cli

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/martijn/inkwell/internal/api/form"
	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
	Long:  "Manage blog accounts from the command line",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username> <email>",
	Short: "Add a new user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		password, err := readPassword("Enter password: ", "Confirm password: ")
		if err != nil {
			return err
		}

		f := form.ParseRegistrationForm(url.Values{
			"username":         {args[0]},
			"email":            {args[1]},
			"password":         {password},
			"confirm_password": {password},
		})
		errs, err := f.Validate(cmd.Context(), services.AccountService)
		if err != nil {
			return fmt.Errorf("failed to check existing users: %w", err)
		}
		if !errs.Valid() {
			return formError(errs)
		}

		user, err := services.AuthService.Register(cmd.Context(), f.Username, f.Email, f.Password)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("User '%s' created successfully (id %d)\n", user.Username, user.ID)
		return nil
	},
}

var usersUpdatePasswordCmd = &cobra.Command{
	Use:   "update-password <email>",
	Short: "Update user password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(args[0])

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		// Check if user exists before prompting
		if _, err := services.UserRepo.FindByEmail(cmd.Context(), email); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return fmt.Errorf("user not found: %s", email)
			}
			return err
		}

		password, err := readPassword("Enter new password: ", "Confirm new password: ")
		if err != nil {
			return err
		}

		if err := services.AuthService.UpdatePassword(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		fmt.Printf("Password updated for '%s'\n", email)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		users, err := services.AuthService.ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if len(users) == 0 {
			fmt.Println("No users found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tAVATAR\tCREATED AT")
		for _, user := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				user.ID,
				user.Username,
				user.Email,
				user.ImageFile,
				user.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()

		return nil
	},
}

// readPassword prompts twice without echo and returns the password once both
// entries match.
func readPassword(prompt, confirmPrompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print(confirmPrompt)
	confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirmPassword) {
		return "", fmt.Errorf("passwords do not match")
	}
	if strings.TrimSpace(string(password)) == "" {
		return "", fmt.Errorf("password is required")
	}

	return string(password), nil
}

// formError flattens validation errors into one message, one field per line.
func formError(errs form.Errors) error {
	var b strings.Builder
	b.WriteString("invalid user:")
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		fmt.Fprintf(&b, "\n  %s: %s", field, strings.Join(errs[field], ", "))
	}
	return errors.New(b.String())
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersUpdatePasswordCmd)
	usersCmd.AddCommand(usersListCmd)
}
