package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	username, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	streamer, err := GetYesNo(a.reader, "Register as streamer?", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	defer wipe(password)

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	if err := a.service.Register(ctx, email, username, password, streamer); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	fmt.Fprintln(a.out, "Registered, you can log in now.")
}

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	defer wipe(password)

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	if err := a.service.Login(ctx, email, password); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	a.userName = email
	fmt.Fprintln(a.out, "Success!")
}

func (a *App) Logout() {
	a.service.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out.")
}

func (a *App) me(ctx context.Context) {
	ctx, cancel := a.callContext(ctx)
	defer cancel()

	p, err := a.service.Me(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	kind := "fan"
	if p.Type == 1 {
		kind = "streamer"
	}
	fmt.Fprintf(a.out, "%s <%s> id=%s (%s)\n", p.UserName, p.Email, p.ID, kind)
	if p.LastLogin != "" {
		fmt.Fprintf(a.out, "last login: %s\n", p.LastLogin)
	}
}

func (a *App) send(ctx context.Context) {
	to, err := GetSimpleText(a.reader, "Recipient id", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	body, err := GetSimpleText(a.reader, "Message", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	if err := a.service.Send(ctx, to, body); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintln(a.out, "Sent.")
}

func (a *App) inbox(ctx context.Context) {
	ctx, cancel := a.callContext(ctx)
	defer cancel()

	msgs, err := a.service.Inbox(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages.")
		return
	}
	for _, m := range msgs {
		fmt.Fprintf(a.out, "[%s] from %s: %s\n", m.CreatedAt, m.From, strings.TrimSpace(m.Body))
	}
}
