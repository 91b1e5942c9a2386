package application

import (
	staffdirectory "sabbatical-backend/lib/staff-directory"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
)

// Access decides which applications an actor may read.
type Access struct {
	directory staffdirectory.Provider
}

func NewAccess(directory staffdirectory.Provider) Access {
	return Access{directory: directory}
}

// VisibleEmails returns nil when the actor sees every application.
func (a Access) VisibleEmails(actor models.Actor) ([]string, error) {
	if actor.IsReviewer() {
		return nil, nil
	}
	emails := []string{actor.Email}
	if actor.Has(models.DirectorRole) && a.directory != nil {
		reports, err := a.directory.DirectReports(actor.Email)
		if err != nil {
			return nil, err
		}
		for _, emp := range reports {
			emails = append(emails, emp.Email)
		}
	}
	return emails, nil
}

// CanView also admits anyone holding an approval record on the application.
func (a Access) CanView(actor models.Actor, rec dbmodels.Application, tasks []dbmodels.ApprovalTask) (bool, error) {
	if actor.IsReviewer() || rec.IsOwner(actor.Email) {
		return true, nil
	}
	for _, task := range tasks {
		if task.IsApprover(actor.Email) {
			return true, nil
		}
	}
	if !actor.Has(models.DirectorRole) {
		return false, nil
	}
	emails, err := a.VisibleEmails(actor)
	if err != nil {
		return false, err
	}
	for _, email := range emails {
		if rec.IsOwner(email) {
			return true, nil
		}
	}
	return false, nil
}
