package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/client/session"
	"github.com/dmitrijs2005/matrimo/internal/client/validate"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (a *App) Profile(context.Context) error {
	u := a.session.State().User
	if u == nil {
		a.println("You are not logged in.")
		return nil
	}

	a.printf("Name:     %s\n", u.FullName)
	a.printf("Email:    %s\n", u.Email)
	a.printf("Phone:    %s\n", u.Phone)
	a.printf("Verified: %s\n", yesNo(u.IsVerified))
	a.printf("Complete: %s\n", yesNo(u.ProfileComplete))
	return nil
}

// EditProfile updates name and phone. Empty answers keep the current value.
func (a *App) EditProfile(ctx context.Context) error {
	u := a.session.State().User
	if u == nil {
		a.println("You are not logged in.")
		return nil
	}

	var patch models.UserPatch

	name, err := getSimpleText(a.reader, "Full name ["+u.FullName+"]", a.out)
	if err != nil {
		return err
	}
	if name = strings.TrimSpace(name); name != "" && name != u.FullName {
		patch.FullName = &name
	}

	phone, err := getSimpleText(a.reader, "Phone ["+u.Phone+"]", a.out)
	if err != nil {
		return err
	}
	if phone = strings.TrimSpace(phone); phone != "" && phone != u.Phone {
		if err := validate.Phone(phone); err != nil {
			a.report(session.Failure(err), "")
			return nil
		}
		patch.Phone = &phone
	}

	merged := patch.Apply(*u)
	if !u.ProfileComplete && merged.FullName != "" && merged.Phone != "" {
		complete := true
		patch.ProfileComplete = &complete
	}

	if patch.Empty() {
		a.println("Nothing to change.")
		return nil
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	a.session.UpdateUser(ctx, patch)
	a.println("Profile updated.")
	return nil
}
