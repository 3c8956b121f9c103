package main

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var readPasswordFunc = term.ReadPassword // mockable

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}
	cmd.AddCommand(addUserCmd())
	return cmd
}

func addUserCmd() *cobra.Command {
	var (
		name    string
		uname   string
		email   string
		isAdmin bool
	)

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create or update a user; the password is prompted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if uname == "" && email == "" {
				return errors.New("one of --username or --email is required")
			}

			fmt.Print("Enter password: ")
			pwd, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				return errors.New("password must not be empty")
			}

			app, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()
			return addUser(app.Users, name, uname, email, string(pwd), isAdmin)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "The user's full name")
	cmd.Flags().StringVar(&uname, "username", "", "The user's username")
	cmd.Flags().StringVar(&email, "email", "", "The user's email")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "Grant all roles")
	return cmd
}

// addUser updates or creates a user.User
func addUser(svc *user.Service, name, uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	roles := user.StudentRoles
	if isAdmin {
		roles = user.AllRoles
	}

	lookup := uname
	if lookup == "" {
		lookup = email
	}
	if usr, err := svc.GetByUsernameOrEmail(lookup); err == nil {
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		usr.IsActive = true
		if isAdmin {
			usr.Roles = user.AllRoles
		}
		_, err = svc.Update(usr)
		return err
	} else if err != user.ErrNotFound {
		return err
	}

	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           roles,
	}
	if err := nu.Validate(svc); err != nil {
		return err
	}
	_, err := svc.Create(nu)
	return err
}
