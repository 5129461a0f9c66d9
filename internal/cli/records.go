package cli

import (
	"github.com/spf13/cobra"

	"github.com/yigit/registrar/internal/app/models"
)

func newSubjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List or add subjects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all subjects as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), a.registration.GetAllSubjects(cmd.Context()))
		},
	}

	var subject models.Subject
	var subjectID, prerequisite string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a subject",
		Long: `Add a subject to the catalog. The enrollment count always starts at zero.

Examples:
  registrarctl subjects add --id 05500002 --name "Data Structures" --credit 3 --prerequisite 05500001 --capacity 25
  registrarctl subjects add --id 05500003 --name "Discrete Mathematics"   # unlimited capacity`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subject.SubjectID = models.NewID(subjectID)
			subject.Prerequisite = models.NewID(prerequisite)
			if err := a.registration.AddSubject(cmd.Context(), subject); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), subject)
		},
	}
	add.Flags().StringVar(&subjectID, "id", "", "subject ID")
	add.Flags().StringVar(&subject.Name, "name", "", "subject name")
	add.Flags().IntVar(&subject.Credit, "credit", 0, "credits")
	add.Flags().StringVar(&subject.Instructor, "instructor", "", "instructor name")
	add.Flags().StringVar(&prerequisite, "prerequisite", "", "subject ID that must be graded first")
	add.Flags().IntVar(&subject.Capacity, "capacity", models.UnlimitedCapacity, "seat limit, -1 for unlimited")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("name")

	cmd.AddCommand(list, add)
	return cmd
}

func newStudentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Add students",
	}

	var student models.Student
	var studentID string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			student.StudentID = models.NewID(studentID)
			if err := a.registration.AddStudent(cmd.Context(), student); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), student)
		},
	}
	add.Flags().StringVar(&studentID, "id", "", "student ID")
	add.Flags().StringVar(&student.Title, "title", "", "title (Mr., Ms., ...)")
	add.Flags().StringVar(&student.FirstName, "first-name", "", "first name")
	add.Flags().StringVar(&student.LastName, "last-name", "", "last name")
	add.Flags().StringVar(&student.DateOfBirth, "dob", "", "date of birth, DD/MM/YYYY")
	add.Flags().StringVar(&student.School, "school", "", "school")
	add.Flags().StringVar(&student.Email, "email", "", "email address")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("dob")

	cmd.AddCommand(add)
	return cmd
}
