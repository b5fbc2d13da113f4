package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/tmercier/noteshare/models"
)

// psql is the statement builder shared by all dynamically constructed
// queries. Dollar placeholders are understood by both supported drivers.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Column lists reused by static queries and squirrel builders. The scan
// order in every repository method matches these lists.
var (
	userColumns       = []string{"user_id", "username", "email", "password_hash", "role", "created_at"}
	noteColumns       = []string{"note_id", "content", "creator_id", "important", "created_at", "update_date", "read_date", "delete_date", "deleted_by"}
	assignmentColumns = []string{"assignment_id", "note_id", "user_id", "assigned_at", "is_read", "read_date", "recipient_priority", "recipient_status", "finished_date"}
	contactColumns    = []string{"contact_id", "user_id", "contact_user_id", "nickname", "action", "created_at"}
	actionLogColumns  = []string{"log_id", "user_id", "target_id", "action_type", "created_at", "payload"}
)

var (
	userColumnList       = strings.Join(userColumns, ", ")
	noteColumnList       = strings.Join(noteColumns, ", ")
	assignmentColumnList = strings.Join(assignmentColumns, ", ")
	contactColumnList    = strings.Join(contactColumns, ", ")
	actionLogColumnList  = strings.Join(actionLogColumns, ", ")
)

var (
	createUser = `INSERT INTO users (username, email, password_hash, role)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + userColumnList + `;`

	findUserByID = `SELECT ` + userColumnList + `
	FROM users
	WHERE user_id = $1;`

	findUserByUsername = `SELECT ` + userColumnList + `
	FROM users
	WHERE username = $1;`

	createNote = `INSERT INTO notes (content, creator_id, important)
	VALUES ($1, $2, $3)
	RETURNING ` + noteColumnList + `;`

	findNoteByID = `SELECT ` + noteColumnList + `
	FROM notes
	WHERE note_id = $1;`

	softDeleteNote = `UPDATE notes
	SET delete_date = $2, deleted_by = $3
	WHERE note_id = $1 AND delete_date IS NULL
	RETURNING ` + noteColumnList + `;`

	// First recipient read wins; later reads leave the stamp untouched.
	stampNoteReadDate = `UPDATE notes
	SET read_date = $2
	WHERE note_id = $1 AND read_date IS NULL;`

	findOrphanNotesByCreator = `SELECT ` + noteColumnList + `
	FROM notes n
	WHERE n.creator_id = $1
	  AND n.delete_date IS NULL
	  AND NOT EXISTS (SELECT 1 FROM assignments a WHERE a.note_id = n.note_id)
	ORDER BY n.created_at, n.note_id;`

	noteExists = `SELECT EXISTS(SELECT 1 FROM notes WHERE note_id = $1);`
	userExists = `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1);`

	createAssignment = `INSERT INTO assignments (note_id, user_id, is_read, read_date)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + assignmentColumnList + `;`

	findAssignmentByID = `SELECT ` + assignmentColumnList + `
	FROM assignments
	WHERE assignment_id = $1;`

	findAssignmentByNoteAndUser = `SELECT ` + assignmentColumnList + `
	FROM assignments
	WHERE note_id = $1 AND user_id = $2;`

	findAssignmentsByNote = `SELECT ` + assignmentColumnList + `
	FROM assignments
	WHERE note_id = $1
	ORDER BY assigned_at, assignment_id;`

	findUnreadAssignmentsByUser = `SELECT ` + assignmentColumnList + `
	FROM assignments
	WHERE user_id = $1 AND is_read = FALSE
	ORDER BY assigned_at, assignment_id;`

	deleteAssignment = `DELETE FROM assignments
	WHERE assignment_id = $1
	RETURNING ` + assignmentColumnList + `;`

	// Conditional flip: a no-op when is_read is already true, which makes
	// the first-read side effect idempotent under concurrent GETs.
	markAssignmentRead = `UPDATE assignments
	SET is_read = TRUE, read_date = $2
	WHERE assignment_id = $1 AND is_read = FALSE
	RETURNING ` + assignmentColumnList + `;`

	toggleAssignmentPriority = `UPDATE assignments
	SET recipient_priority = NOT recipient_priority
	WHERE assignment_id = $1
	RETURNING ` + assignmentColumnList + `;`

	updateAssignmentStatus = `UPDATE assignments
	SET recipient_status = $2, finished_date = $3
	WHERE assignment_id = $1
	RETURNING ` + assignmentColumnList + `;`

	createContact = `INSERT INTO contacts (user_id, contact_user_id, nickname, action)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + contactColumnList + `;`

	findContactByID = `SELECT ` + contactColumnList + `
	FROM contacts
	WHERE contact_id = $1;`

	findContactsByOwner = `SELECT ` + contactColumnList + `
	FROM contacts
	WHERE user_id = $1
	ORDER BY created_at, contact_id;`

	deleteContact = `DELETE FROM contacts
	WHERE contact_id = $1
	RETURNING ` + contactColumnList + `;`

	reciprocalPairExists = `SELECT EXISTS(SELECT 1 FROM contacts WHERE user_id = $1 AND contact_user_id = $2)
	   AND EXISTS(SELECT 1 FROM contacts WHERE user_id = $2 AND contact_user_id = $1);`

	appendActionLog = `INSERT INTO action_logs (user_id, target_id, action_type, payload)
	VALUES ($1, $2, $3, $4)
	RETURNING log_id, created_at;`
)

// buildUpdateNoteQuery builds a partial UPDATE for a note. Only non-nil
// fields of update are written; update_date is always stamped.
func buildUpdateNoteQuery(update models.NoteUpdate, now time.Time) (string, []any, error) {
	builder := psql.Update("notes").
		Set("update_date", now).
		Where(sq.Eq{"note_id": update.NoteID}).
		Suffix("RETURNING " + noteColumnList)

	if update.Content != nil {
		builder = builder.Set("content", *update.Content)
	}

	if update.Important != nil {
		builder = builder.Set("important", *update.Important)
	}

	return builder.ToSql()
}

// buildUpdateAssignmentQuery builds a partial UPDATE for an assignment.
// A direct is_read change also stamps or clears read_date, matching the
// semantics of the GET-triggered flip.
func buildUpdateAssignmentQuery(update models.AssignmentUpdate, now time.Time) (string, []any, error) {
	builder := psql.Update("assignments").
		Where(sq.Eq{"assignment_id": update.AssignmentID}).
		Suffix("RETURNING " + assignmentColumnList)

	if update.IsRead != nil {
		builder = builder.Set("is_read", *update.IsRead)
		if *update.IsRead {
			builder = builder.Set("read_date", now)
		} else {
			builder = builder.Set("read_date", nil)
		}
	}

	if update.UserID != nil {
		builder = builder.Set("user_id", *update.UserID)
	}

	return builder.ToSql()
}

// buildUpdateContactQuery builds a partial UPDATE for a contact's nickname
// and free-text action.
func buildUpdateContactQuery(update models.ContactUpdate) (string, []any, error) {
	builder := psql.Update("contacts").
		Where(sq.Eq{"contact_id": update.ContactID}).
		Suffix("RETURNING " + contactColumnList)

	if update.Nickname != nil {
		builder = builder.Set("nickname", *update.Nickname)
	}

	if update.Action != nil {
		builder = builder.Set("action", *update.Action)
	}

	return builder.ToSql()
}

// buildFindUsersByIDsQuery builds a SELECT matching any of the given ids.
func buildFindUsersByIDsQuery(userIDs []int64) (string, []any, error) {
	return psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"user_id": userIDs}).
		ToSql()
}

// buildActionLogsByTypesQuery builds the ordered scan used by history
// reconstruction: all entries of the given action types, oldest first.
func buildActionLogsByTypesQuery(actionTypes []string) (string, []any, error) {
	return psql.Select(actionLogColumns...).
		From("action_logs").
		Where(sq.Eq{"action_type": actionTypes}).
		OrderBy("created_at", "log_id").
		ToSql()
}
