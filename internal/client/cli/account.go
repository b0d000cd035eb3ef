package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
)

var getList = GetList

var errCancelled = errors.New("cancelled")

func (a *App) Activate(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.Activate(ctx); err != nil {
		log.Printf("Activation failed: %s", err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Account activated")
	return nil
}

func (a *App) ResendActivation(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.ResendActivation(ctx); err != nil {
		log.Printf("Resend failed: %s", err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Activation code sent")
	return nil
}

// Show prints the account with the given id, or the caller's own account
// when id is empty.
func (a *App) Show(ctx context.Context, id string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	acc, err := a.client.GetUser(ctx, id)
	if err != nil {
		log.Printf("Lookup failed: %s", err.Error())
		return err
	}
	printAccount(a, acc)
	return nil
}

func printAccount(a *App, acc *client.Account) {
	fmt.Fprintf(a.out, "ID:         %s\n", acc.ID)
	fmt.Fprintf(a.out, "User name:  %s\n", acc.UserName)
	fmt.Fprintf(a.out, "Mail:       %s\n", acc.Mail)
	fmt.Fprintf(a.out, "Name:       %s\n", strings.TrimSpace(acc.FirstName+" "+acc.LastName))
	fmt.Fprintf(a.out, "Roles:      %s\n", strings.Join(acc.Roles, ", "))
	fmt.Fprintf(a.out, "Activated:  %t\n", acc.AccountActivated)
	fmt.Fprintf(a.out, "Disabled:   %t\n", acc.Disabled)
}

// DeleteAccount removes the caller's own account after an explicit "yes".
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to delete your account", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return errCancelled
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.DeleteAccount(ctx); err != nil {
		log.Printf("Delete failed: %s", err.Error())
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

// Archive disables the listed accounts. Admin only.
func (a *App) Archive(ctx context.Context) error {
	ids, err := getList(a.reader, "Enter user ids (comma separated)", a.out)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "Nothing to archive")
		return nil
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	n, err := a.client.ArchiveUsers(ctx, ids)
	if err != nil {
		log.Printf("Archive failed: %s", err.Error())
		return err
	}
	fmt.Fprintf(a.out, "Archived %d of %d\n", n, len(ids))
	return nil
}
