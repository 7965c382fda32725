package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/healthyindia/labelscan/internal/client/session"
	"github.com/healthyindia/labelscan/internal/filex"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	screen() session.Screen
	status() string
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Guest(ctx context.Context) error
	Phone(ctx context.Context) error
	Code(ctx context.Context) error
	Back(ctx context.Context) error
	SetPin(ctx context.Context) error
	Pin(ctx context.Context) error
	Logout(ctx context.Context) error
	Capture(ctx context.Context, path string) error
	Labels(ctx context.Context) error
	Show(ctx context.Context, arg string) error
	Alternatives(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

// commands lists what each screen accepts, in help order. help and exit
// work everywhere.
var commands = map[session.Screen][]string{
	session.ScreenLogin:      {"login", "signup", "guest", "phone"},
	session.ScreenVerifyCode: {"code", "back"},
	session.ScreenPinSetup:   {"setpin"},
	session.ScreenPinEntry:   {"pin", "logout"},
	session.ScreenDashboard:  {"capture <file>", "labels", "show <n>", "alternatives", "whoami", "logout"},
}

func allowed(sc session.Screen, cmd string) bool {
	for _, c := range commands[sc] {
		name, _, _ := strings.Cut(c, " ")
		if name == cmd {
			return true
		}
	}
	return false
}

// runREPL starts a read-eval-print loop on in.
//
// Each line's first token is the command; it is dispatched only when the
// current screen accepts it. Handler errors are printed and the loop goes
// on. The loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, in *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "labelscan %s> ", a.status())
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintf(w, "Available commands: %s, help, exit\n", strings.Join(commands[a.screen()], ", "))
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		}

		if !allowed(a.screen(), cmd) {
			fmt.Fprintf(w, "Unknown command: %s (type 'help')\n", cmd)
			continue
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			fmt.Fprintln(w, "Error:", userMessage(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.Login(ctx)
	case "signup":
		return a.Signup(ctx)
	case "guest":
		return a.Guest(ctx)
	case "phone":
		return a.Phone(ctx)
	case "code":
		return a.Code(ctx)
	case "back":
		return a.Back(ctx)
	case "setpin":
		return a.SetPin(ctx)
	case "pin":
		return a.Pin(ctx)
	case "logout":
		return a.Logout(ctx)
	case "capture":
		if len(args) != 1 {
			return errors.New("usage: capture <file>")
		}
		return a.Capture(ctx, args[0])
	case "labels":
		return a.Labels(ctx)
	case "show":
		if len(args) != 1 {
			return errors.New("usage: show <n>")
		}
		return a.Show(ctx, args[0])
	case "alternatives":
		return a.Alternatives(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

// userMessage turns a command error into the line shown to the user.
func userMessage(err error) string {
	var ve *session.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Reason.Error()
	case errors.Is(err, session.ErrWrongPin):
		return "Incorrect PIN"
	case errors.Is(err, session.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, session.ErrInvalidCode):
		return "Invalid verification code"
	case errors.Is(err, session.ErrUnavailable):
		return "Service unavailable, try again later"
	case errors.Is(err, session.ErrBusy):
		return "Please wait, another request is in progress"
	case errors.Is(err, filex.ErrTooLarge):
		return "Image is too large"
	}
	return err.Error()
}
