package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-timesheet/internal/tracker"
	"go-timesheet/internal/workday"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func loginCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and store the session locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "Prompted for when omitted", EnvVars: []string{"CLOCK_PASSWORD"}},
		},
		Action: func(ctx *cli.Context) error {
			password := ctx.String("password")
			if password == "" {
				var err error
				password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
				if err != nil {
					return err
				}
			}

			s, err := rt.client.Login(ctx.Context, ctx.String("email"), password)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Signed in as %s", s.EmployeeName)
			return nil
		},
	}
}

func logoutCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored session",
		Action: func(*cli.Context) error {
			if err := rt.store.ClearSession(); err != nil {
				return err
			}
			pterm.Success.Println("Signed out")
			return nil
		},
	}
}

func statusCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show today's timesheet",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "offline", Usage: "Show the last locally mirrored entry without calling the server"},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.Bool("offline") {
				e, ok, err := rt.store.Latest()
				if err != nil {
					return err
				}
				if !ok {
					pterm.Info.Println("No local timesheet yet")
					return nil
				}
				pterm.Info.Println("Offline copy, may be out of date")
				return printEntry(e, rt.clock.Now())
			}

			if err := rt.requireSession(); err != nil {
				return err
			}
			e, err := rt.newTracker(nil).Load(ctx.Context)
			if err != nil {
				return reported{err}
			}
			return printEntry(e, rt.clock.Now())
		},
	}
}

// transition loads today's entry, runs fn against the tracker and prints the
// result.
func transition(rt *runtime, fn func(context.Context, *tracker.Tracker) (workday.Entry, error)) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if err := rt.requireSession(); err != nil {
			return err
		}
		tr := rt.newTracker(nil)
		if _, err := tr.Load(ctx.Context); err != nil {
			return reported{err}
		}
		e, err := fn(ctx.Context, tr)
		if err != nil {
			return reported{err}
		}
		return printEntry(e, rt.clock.Now())
	}
}

func startCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Start the workday",
		Action: transition(rt, func(ctx context.Context, tr *tracker.Tracker) (workday.Entry, error) {
			return tr.Start(ctx)
		}),
	}
}

func pauseCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "pause",
		Usage: "Pause work",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "reason", Aliases: []string{"r"}, Usage: "Why you are pausing", Required: true},
		},
		Action: func(ctx *cli.Context) error {
			reason := ctx.String("reason")
			return transition(rt, func(c context.Context, tr *tracker.Tracker) (workday.Entry, error) {
				return tr.Pause(c, reason)
			})(ctx)
		},
	}
}

func resumeCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "resume",
		Usage: "Resume work after a pause",
		Action: transition(rt, func(ctx context.Context, tr *tracker.Tracker) (workday.Entry, error) {
			return tr.Resume(ctx)
		}),
	}
}

func endCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "end",
		Usage: "End the workday, then sign it",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "signature-file", Usage: "Image to attach as the signature right away"},
		},
		Action: func(ctx *cli.Context) error {
			sigPath := ctx.Path("signature-file")
			return transition(rt, func(c context.Context, tr *tracker.Tracker) (workday.Entry, error) {
				e, err := tr.End(c)
				if err != nil || !tr.AwaitingSignature() {
					return e, err
				}
				if sigPath == "" {
					pterm.Info.Println("Run `clock sign --signature-file <image>` to complete the day")
					return e, nil
				}
				sig, err := readSignature(sigPath)
				if err != nil {
					pterm.Error.Println(err)
					return e, nil
				}
				signed, err := tr.AttachSignature(c, sig)
				if err != nil {
					return e, nil
				}
				return signed, nil
			})(ctx)
		},
	}
}

func signCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Attach the signature to a finished day",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "signature-file", Required: true},
		},
		Action: func(ctx *cli.Context) error {
			sig, err := readSignature(ctx.Path("signature-file"))
			if err != nil {
				return err
			}
			return transition(rt, func(c context.Context, tr *tracker.Tracker) (workday.Entry, error) {
				return tr.AttachSignature(c, sig)
			})(ctx)
		},
	}
}

func watchCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Show the live elapsed time until interrupted",
		Action: func(ctx *cli.Context) error {
			if err := rt.requireSession(); err != nil {
				return err
			}

			area, err := pterm.DefaultArea.Start()
			if err != nil {
				return err
			}
			defer func() { _ = area.Stop() }()

			var tr *tracker.Tracker
			ticker := workday.NewTicker(rt.clock, func(clock string, _ time.Duration) {
				if tr == nil {
					return
				}
				area.Update(watchLine(tr.Entry(), clock))
			})
			tr = rt.newTracker(ticker)
			defer tr.Close()

			if _, err := tr.Load(ctx.Context); err != nil {
				return reported{err}
			}

			sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-sigCtx.Done()
			rt.logger.Debug("watch interrupted")
			return nil
		},
	}
}

func reportCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Show worked time per month",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Usage: "Defaults to the current year"},
		},
		Action: func(ctx *cli.Context) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			year := ctx.Int("year")
			if year == 0 {
				year = rt.clock.Now().Year()
			}
			m, err := rt.client.Monthly(ctx.Context, year)
			if err != nil {
				rt.logger.Error("monthly report failed", zap.Int("year", year), zap.Error(err))
				return err
			}
			pterm.DefaultSection.Printfln("Worked time %d", m.Year)
			return pterm.DefaultTable.WithHasHeader().WithData(monthlyRows(m)).Render()
		},
	}
}

var errSignatureNotImage = errors.New("signature file must be an image")

// readSignature encodes the file at path as a data URL.
func readSignature(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read signature: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("read signature: %s is empty", path)
	}
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return "", errSignatureNotImage
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
