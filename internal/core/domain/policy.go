package domain

// Task access rules. Every task read or mutation goes through these
// predicates; a false result is reported to callers as ErrForbidden.

// CanView reports whether u may read t: admins, the assignee and the creator.
func CanView(u *User, t *Task) bool {
	return isAdminOrParticipant(u, t)
}

// CanModify reports whether u may update t. Same audience as CanView.
func CanModify(u *User, t *Task) bool {
	return isAdminOrParticipant(u, t)
}

// CanDelete reports whether u may delete t. An assignee alone may not.
func CanDelete(u *User, t *Task) bool {
	if u == nil || t == nil {
		return false
	}
	return u.IsAdmin() || (u.ID != "" && u.ID == t.CreatedBy)
}

func isAdminOrParticipant(u *User, t *Task) bool {
	if u == nil || t == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.ID != "" && (u.ID == t.AssignedTo || u.ID == t.CreatedBy)
}
