package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wolfman30/hospital-booking-client/internal/appointments"
	"github.com/wolfman30/hospital-booking-client/internal/gateway"
)

func loginCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" {
				email = c.readLine("Email: ")
			}
			if password == "" {
				password = c.readLine("Password (input is echoed; prefer --password or piped stdin): ")
			}
			creds := gateway.Credentials{Email: email, Password: password}
			if err := validateCredentials(creds); err != nil {
				return err
			}
			return c.runtime.App.Login.Submit(cmd.Context(), creds)
		},
	}
	cmd.Flags().String("email", "", "Account e-mail")
	cmd.Flags().String("password", "", "Account password; when omitted it is read from stdin, which echoes on a terminal")
	return cmd
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.runtime.App.Login.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func doctorsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Browse the doctor roster",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home := c.runtime.App.Home
			if err := home.Mount(cmd.Context()); err != nil {
				return err
			}
			c.printDoctors(c.runtime.App.Directory.Doctors())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <disease>",
		Short: "Find doctors treating a disease",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home := c.runtime.App.Home
			if err := home.Mount(cmd.Context()); err != nil {
				return err
			}
			found := home.Search(args[0])
			if len(found) == 0 {
				fmt.Fprintln(c.out, "No doctors found")
				return nil
			}
			c.printDoctors(found)
			return nil
		},
	})
	return cmd
}

func bookCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book <doctor-id>",
		Short: "Book an appointment with a doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			timeOfDay, _ := cmd.Flags().GetString("time")
			disease, _ := cmd.Flags().GetString("disease")
			if err := validateSlot(date, timeOfDay); err != nil {
				return err
			}

			home := c.runtime.App.Home
			if err := home.Mount(cmd.Context()); err != nil {
				return err
			}
			// An empty term lists every doctor with a known disease.
			home.Search(disease)
			if _, err := home.SelectDoctor(gateway.ID(args[0])); err != nil {
				return err
			}
			return home.Submit(cmd.Context(), date, timeOfDay)
		},
	}
	cmd.Flags().String("date", "", "Appointment date (YYYY-MM-DD)")
	cmd.Flags().String("time", "", "Appointment time (HH:MM)")
	cmd.Flags().String("disease", "", "Disease the appointment is for")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func appointmentsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appts"},
		Short:   "Manage booked appointments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List booked appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := c.runtime.App.Appointments
			if err := view.Mount(cmd.Context()); err != nil {
				return err
			}
			list := view.List()
			if len(list) == 0 {
				fmt.Fprintln(c.out, "No appointments")
				return nil
			}
			c.printAppointments(list)
			return nil
		},
	})

	edit := &cobra.Command{
		Use:   "edit <appointment-id>",
		Short: "Move an appointment to a new date and time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			timeOfDay, _ := cmd.Flags().GetString("time")
			if err := validateSlot(date, timeOfDay); err != nil {
				return err
			}

			view := c.runtime.App.Appointments
			if err := view.Mount(cmd.Context()); err != nil {
				return err
			}
			if _, err := view.Edit(gateway.ID(args[0])); err != nil {
				return err
			}
			return view.Submit(cmd.Context(), date, timeOfDay)
		},
	}
	edit.Flags().String("date", "", "New date (YYYY-MM-DD)")
	edit.Flags().String("time", "", "New time (HH:MM)")
	_ = edit.MarkFlagRequired("date")
	_ = edit.MarkFlagRequired("time")
	cmd.AddCommand(edit)

	del := &cobra.Command{
		Use:   "delete <appointment-id>",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assumeYes, _ := cmd.Flags().GetBool("yes")
			view := c.runtime.App.Appointments
			if err := view.Mount(cmd.Context()); err != nil {
				return err
			}

			confirm := appointments.ConfirmFunc(c.confirm)
			if assumeYes {
				confirm = func(string) bool { return true }
			}
			deleted, err := view.Delete(cmd.Context(), gateway.ID(args[0]), confirm)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(c.out, "Nothing deleted")
			}
			return nil
		},
	}
	del.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.AddCommand(del)
	return cmd
}

func (c *cli) printDoctors(doctors []gateway.Doctor) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSPECIALTY\tDISEASES")
	for _, d := range doctors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Specialty, joinDiseases(d.Diseases))
	}
	_ = w.Flush()
}

func (c *cli) printAppointments(list []gateway.Appointment) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDOCTOR\tSPECIALIZATION\tDISEASE\tDATE\tTIME")
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.DoctorName, a.Specialization, a.Disease, a.Date, a.Time)
	}
	_ = w.Flush()
}
