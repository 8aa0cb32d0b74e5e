package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/client/session"
	"github.com/dmitrijs2005/matrimo/internal/client/validate"
	"github.com/dmitrijs2005/matrimo/internal/common"
)

// getSimpleText, getPassword and getChoice are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getChoice     = GetChoice
)

var profileForOptions = []string{
	string(models.ProfileForSelf),
	string(models.ProfileForSon),
	string(models.ProfileForDaughter),
	string(models.ProfileForSibling),
	string(models.ProfileForRelative),
	string(models.ProfileForFriend),
}

// report prints the outcome of a session call and says whether it succeeded.
func (a *App) report(res session.Result, success string) bool {
	switch {
	case res.Success:
		if success != "" {
			a.println(success)
		}
		return true
	case res.Canceled:
		a.println("Cancelled.")
	default:
		a.println(res.Error)
	}
	return false
}

// Register asks for the sign-up form, validates it and creates the account.
// The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone", a.out)
	if err != nil {
		return err
	}
	profileFor, err := getChoice(a.reader, "Creating a profile for", profileForOptions, a.out)
	if err != nil {
		return err
	}
	gender, err := getSimpleText(a.reader, "Gender (optional)", a.out)
	if err != nil {
		return err
	}
	dob, err := getSimpleText(a.reader, "Date of birth, YYYY-MM-DD (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	reg := models.Registration{
		FullName:    fullName,
		Email:       strings.TrimSpace(email),
		Phone:       phone,
		Password:    password,
		Gender:      gender,
		DateOfBirth: dob,
		ProfileFor:  models.ProfileFor(profileFor),
	}
	if err := validate.Registration(reg, confirm); err != nil {
		a.report(session.Failure(err), "")
		return nil
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	a.report(a.session.Register(ctx, reg), "Account created. You can now log in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := validate.Credentials(email, password); err != nil {
		a.report(session.Failure(err), "")
		return nil
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	if a.report(a.session.Login(ctx, strings.TrimSpace(email), password), "") {
		if u := a.session.State().User; u != nil {
			a.printf("Welcome, %s!\n", displayName(u))
			if !u.ProfileComplete {
				a.println("Your profile is incomplete. Type 'edit' to finish it.")
			}
		}
	}
	return nil
}

// ForgotPassword walks through request code, verify code, set new password.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if err := validate.Email(email); err != nil {
		a.report(session.Failure(err), "")
		return nil
	}

	reqCtx, cancel := a.commandContext(ctx)
	ok := a.report(a.session.ForgotPassword(reqCtx, email), "We sent a 6-digit code to "+email+".")
	cancel()
	if !ok {
		return nil
	}

	otp, err := getSimpleText(a.reader, "Code", a.out)
	if err != nil {
		return err
	}
	if err := validate.OTP(otp); err != nil {
		a.report(session.Failure(err), "")
		return nil
	}

	reqCtx, cancel = a.commandContext(ctx)
	ok = a.report(a.session.VerifyResetOTP(reqCtx, email, otp), "")
	cancel()
	if !ok {
		return nil
	}

	password, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := validate.NewPassword(password, confirm); err != nil {
		a.report(session.Failure(err), "")
		return nil
	}

	reqCtx, cancel = a.commandContext(ctx)
	defer cancel()
	a.report(a.session.ResetPassword(reqCtx, email, otp, password), "Password updated. You can now log in.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	a.report(a.session.Logout(ctx), "Logged out.")
	return nil
}
