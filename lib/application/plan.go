package application

import (
	applicationstore "sabbatical-backend/lib/application/store"
	"sabbatical-backend/lib/notification"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/workflow"
	"sabbatical-backend/models"
	applicationapimodels "sabbatical-backend/models/api/application"
	dbmodels "sabbatical-backend/models/db"
	"strings"

	log "github.com/sirupsen/logrus"
)

// approvalChain lists the plan approvers: the manager chain nearest first, then talent, then HR.
// Repeated emails keep their first position.
func (i impl) approvalChain(rec dbmodels.Application) ([]dbmodels.ApprovalTask, error) {
	result := []dbmodels.ApprovalTask{}
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(rec.EmployeeEmail)): true}
	add := func(email, name string, role models.ApproverRole) {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		result = append(result, dbmodels.ApprovalTask{
			ApplicationID: rec.ID,
			ApproverEmail: key,
			ApproverName:  name,
			ApproverRole:  role,
			Position:      len(result) + 1,
			State:         models.AStatePending,
		})
	}
	depth := i.settings.ManagerChainDepth
	if depth <= 0 {
		depth = 1
	}
	managers, err := i.directory.Supervisors(rec.EmployeeEmail, depth)
	if err != nil {
		return nil, err
	}
	if len(managers) == 0 && rec.SupervisorEmail != "" {
		add(rec.SupervisorEmail, rec.SupervisorName, models.ApproverManager)
	}
	for _, manager := range managers {
		add(manager.Email, manager.FullName, models.ApproverManager)
	}
	add(i.settings.TalentApprover.Email, i.settings.TalentApprover.Name, models.ApproverTalent)
	add(i.settings.HRApprover.Email, i.settings.HRApprover.Name, models.ApproverHR)
	return result, nil
}

func (i impl) SubmitPlan(actor models.Actor, id string, request applicationapimodels.PlanRequest) (applicationapimodels.ApplicationView, error) {
	logger := log.WithFields(log.Fields{
		"application_id": id,
		"actor":          actor.Email,
	})
	if err := request.Validate(); err != nil {
		return applicationapimodels.ApplicationView{}, err
	}
	var rec dbmodels.Application
	var tasks []dbmodels.ApprovalTask
	err := i.uow.Transaction(func(stores unitofwork.Stores) error {
		current, err := LoadForUpdate(stores, id)
		if err != nil {
			return err
		}
		step, err := workflow.Resolve(current.Status, workflow.ActionSubmitPlan, "", i.caller(actor, *current))
		if err != nil {
			return err
		}
		existing, err := stores.Approvals.List(id)
		if err != nil {
			return StoreError(err, "list approvals")
		}
		if len(existing) != 0 {
			return apperrors.Conflict("Approval records already exist for this application")
		}
		tasks, err = i.approvalChain(*current)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			return apperrors.Validation("No plan approvers could be found for this application")
		}
		for idx := range tasks {
			taskID, err := stores.Approvals.Create(tasks[idx])
			if err != nil {
				return StoreError(err, "create approval")
			}
			tasks[idx].ID = taskID
		}
		patch := applicationstore.Patch{PlanDetails: &request.PlanDetails}
		if err = apply(stores, current, step, patch, HistoryEntry(actor, dbmodels.HistoryPlanSubmitted, "")); err != nil {
			return err
		}
		rec = *current
		return nil
	})
	if err != nil {
		logError(logger, err, "failed to submit plan")
		return applicationapimodels.ApplicationView{}, err
	}
	logger.WithField("approvers", len(tasks)).Info("plan submitted")
	i.notifyApprovers(rec, tasks)
	return i.view(actor, rec), nil
}

func (i impl) ResubmitPlan(actor models.Actor, id string, request applicationapimodels.ResubmitPlanRequest) (applicationapimodels.ApplicationView, error) {
	logger := log.WithFields(log.Fields{
		"application_id": id,
		"actor":          actor.Email,
	})
	if err := request.Validate(); err != nil {
		return applicationapimodels.ApplicationView{}, err
	}
	var rec dbmodels.Application
	var tasks []dbmodels.ApprovalTask
	err := i.uow.Transaction(func(stores unitofwork.Stores) error {
		current, err := LoadForUpdate(stores, id)
		if err != nil {
			return err
		}
		step, err := workflow.Resolve(current.Status, workflow.ActionResubmitPlan, "", i.caller(actor, *current))
		if err != nil {
			return err
		}
		tasks, err = stores.Approvals.List(id)
		if err != nil {
			return StoreError(err, "list approvals")
		}
		if !hasState(tasks, models.AStateChangesRequested) {
			return apperrors.Conflict("No approver has requested changes to this plan")
		}
		if err = stores.Approvals.ResetAll(id); err != nil {
			return StoreError(err, "reset approvals")
		}
		patch := applicationstore.Patch{}
		if strings.TrimSpace(request.PlanDetails) != "" {
			patch.PlanDetails = &request.PlanDetails
		}
		if err = apply(stores, current, step, patch, HistoryEntry(actor, dbmodels.HistoryPlanResubmitted, "")); err != nil {
			return err
		}
		rec = *current
		return nil
	})
	if err != nil {
		logError(logger, err, "failed to resubmit plan")
		return applicationapimodels.ApplicationView{}, err
	}
	logger.Info("plan resubmitted")
	i.notifyApprovers(rec, tasks)
	return i.view(actor, rec), nil
}

func (i impl) DecideTask(actor models.Actor, id, taskID string, action applicationapimodels.TaskAction, request applicationapimodels.TaskActionRequest) (applicationapimodels.ApplicationView, error) {
	logger := log.WithFields(log.Fields{
		"application_id": id,
		"task_id":        taskID,
		"actor":          actor.Email,
		"action":         action,
	})
	if err := request.Validate(action); err != nil {
		return applicationapimodels.ApplicationView{}, err
	}
	state, _ := action.State()
	var rec dbmodels.Application
	var task dbmodels.ApprovalTask
	signedOff := false
	err := i.uow.Transaction(func(stores unitofwork.Stores) error {
		current, err := LoadForUpdate(stores, id)
		if err != nil {
			return err
		}
		if current.Status != models.StatusPlanSubmitted {
			return apperrors.Forbidden(apperrors.StageMessage)
		}
		if current.IsOwner(actor.Email) {
			return apperrors.Forbidden("You cannot approve your own plan")
		}
		found, err := stores.Approvals.GetByID(id, taskID)
		if err != nil {
			return StoreError(err, "get approval")
		}
		if found == nil {
			return apperrors.NotFound("Approval %v not found", taskID)
		}
		task = *found
		if !task.IsApprover(actor.Email) && !actor.IsAdmin() {
			return apperrors.Forbidden("Only the assigned approver can act on this approval")
		}
		ok, err := stores.Approvals.Decide(id, taskID, state, request.Comment)
		if err != nil {
			return StoreError(err, "update approval")
		}
		if !ok {
			return apperrors.Conflict("This approval has already been decided")
		}
		task.State = state
		task.Comment = request.Comment
		entry := HistoryEntry(actor, taskHistoryAction(state), request.Comment)
		entry.ApplicationID = id
		entry.TaskID = &task.ID
		entry.Changes.Description = "approval decided"
		entry.Changes.Add("state", models.AStatePending, state)
		if _, err = stores.History.Create(entry); err != nil {
			return StoreError(err, "write application history")
		}

		system := workflow.Caller{System: true}
		switch state {
		case models.AStateDenied:
			step, err := workflow.Resolve(current.Status, workflow.ActionPlanDenied, "", system)
			if err != nil {
				return err
			}
			if err = apply(stores, current, step, applicationstore.Patch{}, systemEntry(dbmodels.HistoryPlanDenied, request.Comment)); err != nil {
				return err
			}
		case models.AStateApproved:
			tasks, err := stores.Approvals.List(id)
			if err != nil {
				return StoreError(err, "list approvals")
			}
			if !allApproved(tasks) {
				break
			}
			step, err := workflow.Resolve(current.Status, workflow.ActionPlanSignedOff, "", system)
			if err != nil {
				return err
			}
			if err = apply(stores, current, step, applicationstore.Patch{}, systemEntry(dbmodels.HistoryPlanSignedOff, "All approvers signed off")); err != nil {
				return err
			}
			signedOff = true
		}
		rec = *current
		return nil
	})
	if err != nil {
		logError(logger, err, "failed to decide approval")
		return applicationapimodels.ApplicationView{}, err
	}
	logger.WithField("status", rec.Status).Info("approval decided")

	data := i.templateData(rec)
	data.ApproverName = task.ApproverName
	if data.ApproverName == "" {
		data.ApproverName = actor.DisplayName()
	}
	data.Notes = request.Comment
	owner := []string{rec.EmployeeEmail}
	switch {
	case state == models.AStateChangesRequested:
		i.notify(notification.TplPlanChangesRequested, rec, data, owner)
	case state == models.AStateDenied:
		i.notify(notification.TplPlanDenied, rec, data, owner)
	case signedOff:
		i.notify(notification.TplPlanApproved, rec, data, owner)
		i.notify(notification.TplPlanApprovedToHR, rec, data, nil, notification.TeamHR)
	}
	return i.view(actor, rec), nil
}

func (i impl) notifyApprovers(rec dbmodels.Application, tasks []dbmodels.ApprovalTask) {
	for _, task := range tasks {
		data := i.templateData(rec)
		data.ApproverName = task.ApproverName
		i.notify(notification.TplPlanToApprover, rec, data, []string{task.ApproverEmail})
	}
}

func taskHistoryAction(state models.ApprovalState) dbmodels.HistoryAction {
	switch state {
	case models.AStateApproved:
		return dbmodels.HistoryTaskApproved
	case models.AStateChangesRequested:
		return dbmodels.HistoryTaskChanges
	}
	return dbmodels.HistoryTaskDenied
}

func hasState(tasks []dbmodels.ApprovalTask, state models.ApprovalState) bool {
	for _, task := range tasks {
		if task.State == state {
			return true
		}
	}
	return false
}

func allApproved(tasks []dbmodels.ApprovalTask) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, task := range tasks {
		if task.State != models.AStateApproved {
			return false
		}
	}
	return true
}
