package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. A
// successful registration leaves the client logged in.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	mail, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	userName, err := getSimpleText(a.reader, "Enter user name (optional)", a.out)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, "Enter first name (optional)", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	in := client.RegisterInput{
		Mail:      mail,
		Password:  password,
		UserName:  userName,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := a.client.Register(ctx, in); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	a.userName = mail
	fmt.Fprintln(a.out, "Success! An activation code was sent to", mail)
	return nil
}

// Login prompts for the mail address and password.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.Login(ctx, userName, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Login successful")
	a.userName = userName
	return nil
}

// Logout revokes the session on the server and forgets the local tokens.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	a.userName = ""
	if err := a.client.Logout(ctx); err != nil {
		log.Printf("Logout: %s", err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
