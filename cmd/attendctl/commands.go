package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"classtrack/internal/apiclient"
	"classtrack/internal/model"
	"classtrack/internal/term"
)

// withSpinner runs fn with a terminal spinner on stderr.
func withSpinner(text string, fn func() error) error {
	sp := term.NewSpinner(os.Stderr, term.SizeDefault, "primary", text)
	sp.Start(context.Background())
	defer sp.Stop()
	return fn()
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		fs.Usage()
		return errHelp
	}

	var res apiclient.LoginResult
	err := withSpinner("signing in", func() error {
		var err error
		res, err = cli.api.Login(ctx, *email, *password)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("signed in as %s (%s)\n", res.User.Name, res.User.Role)
	fmt.Printf("export CLASSTRACK_TOKEN=%s\n", res.AccessToken)
	return nil
}

func (cli *commandLine) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "new display name")
	dept := fs.String("dept", "", "new department")
	phone := fs.String("phone", "", "new phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prof, err := cli.requireAuth()
	if err != nil {
		return err
	}

	usr := prof.User()
	fmt.Printf("%s <%s> - %s\n", usr.Name, usr.Email, usr.Role)

	if usr.Role == model.RoleLecturer || usr.Role == model.RoleAdmin {
		err := withSpinner("loading teaching stats", func() error {
			stats, err := prof.TeachingStats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("courses: %d  sessions today: %d  check-ins today: %d  rate: %.0f%%\n",
				stats.Courses, stats.SessionsToday, stats.CheckinsToday, stats.AttendanceRate*100)
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "stats unavailable: %v\n", err)
		}
	}

	if *name != "" || *dept != "" || *phone != "" {
		prof.BeginEdit()
		draft := prof.Draft()
		if *name != "" {
			draft.Name = *name
		}
		if *dept != "" {
			draft.Department = *dept
		}
		if *phone != "" {
			draft.Phone = *phone
		}
		return prof.Save()
	}
	return nil
}

func (cli *commandLine) passwd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	current := fs.String("current", "", "current password")
	newPwd := fs.String("new", "", "new password")
	confirm := fs.String("confirm", "", "new password, again")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *current == "" || *newPwd == "" || *confirm == "" {
		fs.Usage()
		return errHelp
	}

	prof, err := cli.requireAuth()
	if err != nil {
		return err
	}
	return prof.ChangePassword(ctx, *current, *newPwd, *confirm)
}

func (cli *commandLine) attendance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("attendance", flag.ExitOnError)
	date := fs.String("date", "", "day to list (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *date == "" {
		fs.Usage()
		return errHelp
	}

	var recs []model.AttendanceRecord
	err := withSpinner("loading attendance", func() error {
		var err error
		recs, err = cli.data.AttendanceByDate(ctx, *date)
		return err
	})
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("no records")
		return nil
	}
	for _, rec := range recs {
		fmt.Printf("%s  user=%s session=%s  %s\n",
			rec.CheckedAt.Format("15:04:05"), rec.UserID, rec.SessionID, rec.Status)
	}
	return nil
}

func (cli *commandLine) checkin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkin", flag.ExitOnError)
	user := fs.String("user", "", "user id")
	session := fs.String("session", "", "session id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" || *session == "" {
		fs.Usage()
		return errHelp
	}

	if _, err := cli.requireAuth(); err != nil {
		return err
	}
	return withSpinner("recording check-in", func() error {
		return cli.data.MarkAttendance(ctx, apiclient.MarkInput{UserID: *user, SessionID: *session})
	})
}

func (cli *commandLine) courses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("courses", flag.ExitOnError)
	instructor := fs.String("instructor", "", "filter by instructor id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var courses []model.Course
	err := withSpinner("loading courses", func() error {
		var err error
		if *instructor != "" {
			courses, err = cli.data.CoursesByInstructor(ctx, *instructor)
		} else {
			courses, err = cli.data.Courses(ctx)
		}
		return err
	})
	if err != nil {
		return err
	}

	for _, c := range courses {
		fmt.Printf("%-10s %s (instructor %s)\n", c.Code, c.Title, c.InstructorID)
	}
	return nil
}

func (cli *commandLine) sessions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sessions", flag.ExitOnError)
	date := fs.String("date", "", "day (YYYY-MM-DD)")
	course := fs.String("course", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *date == "" && *course == "" {
		fs.Usage()
		return errHelp
	}

	var sessions []model.ClassSession
	err := withSpinner("loading sessions", func() error {
		var err error
		if *course != "" {
			sessions, err = cli.data.SessionsByCourse(ctx, *course)
		} else {
			sessions, err = cli.data.SessionsByDate(ctx, *date)
		}
		return err
	})
	if err != nil {
		return err
	}

	for _, s := range sessions {
		fmt.Printf("%s %s-%s  course=%s room=%s\n",
			s.Date, s.StartsAt.Format("15:04"), s.EndsAt.Format("15:04"), s.CourseID, s.Room)
	}
	return nil
}

func (cli *commandLine) beacons(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("beacons", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var beacons []model.Beacon
	var asgs []model.BeaconAssignment
	err := withSpinner("loading beacons", func() error {
		var err error
		if beacons, err = cli.data.Beacons(ctx); err != nil {
			return err
		}
		asgs, err = cli.data.BeaconAssignments(ctx)
		return err
	})
	if err != nil {
		return err
	}

	byBeacon := make(map[string][]string)
	for _, a := range asgs {
		byBeacon[a.BeaconID] = append(byBeacon[a.BeaconID], a.CourseCode)
	}
	for _, b := range beacons {
		fmt.Printf("%-20s %s %d/%d  courses=%v\n", b.Label, b.UUID, b.Major, b.Minor, byBeacon[b.ID])
	}
	return nil
}
