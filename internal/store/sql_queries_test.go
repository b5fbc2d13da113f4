package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmercier/noteshare/models"
)

func Test_buildUpdateNoteQuery_SQLContainsParts(t *testing.T) {
	content := "updated content"
	important := true
	now := time.Now()

	query, args, err := buildUpdateNoteQuery(models.NoteUpdate{
		NoteID:    7,
		Content:   &content,
		Important: &important,
	}, now)
	require.NoError(t, err)

	q := strings.ToLower(query)

	require.Contains(t, q, "update notes")
	require.Contains(t, q, "content")
	require.Contains(t, q, "important")
	require.Contains(t, q, "update_date")
	require.Contains(t, q, "where")
	require.Contains(t, q, "returning")

	// placeholder format should be $1 (Postgres)
	require.Contains(t, query, "$1")

	require.Len(t, args, 4)
	require.Contains(t, args, content)
	require.Contains(t, args, important)
	require.Contains(t, args, int64(7))
}

func Test_buildUpdateNoteQuery_AlwaysStampsUpdateDate(t *testing.T) {
	now := time.Now()

	query, args, err := buildUpdateNoteQuery(models.NoteUpdate{NoteID: 7}, now)
	require.NoError(t, err)

	require.Contains(t, strings.ToLower(query), "update_date")
	require.Contains(t, args, now)
}

func Test_buildUpdateAssignmentQuery_ReadFlagStampsReadDate(t *testing.T) {
	read := true
	now := time.Now()

	query, args, err := buildUpdateAssignmentQuery(models.AssignmentUpdate{
		AssignmentID: 3,
		IsRead:       &read,
	}, now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update assignments")
	require.Contains(t, q, "is_read")
	require.Contains(t, q, "read_date")
	require.Contains(t, args, now)
}

func Test_buildUpdateAssignmentQuery_UnreadClearsReadDate(t *testing.T) {
	read := false
	now := time.Now()

	query, args, err := buildUpdateAssignmentQuery(models.AssignmentUpdate{
		AssignmentID: 3,
		IsRead:       &read,
	}, now)
	require.NoError(t, err)

	require.Contains(t, strings.ToLower(query), "read_date")
	require.NotContains(t, args, now)
	require.Contains(t, args, nil)
}

func Test_buildUpdateAssignmentQuery_Reassignment(t *testing.T) {
	newUser := int64(9)

	query, args, err := buildUpdateAssignmentQuery(models.AssignmentUpdate{
		AssignmentID: 3,
		UserID:       &newUser,
	}, time.Now())
	require.NoError(t, err)

	require.Contains(t, strings.ToLower(query), "user_id")
	require.Contains(t, args, newUser)
}

func Test_buildFindUsersByIDsQuery_SQLContainsParts(t *testing.T) {
	query, args, err := buildFindUsersByIDsQuery([]int64{1, 2, 3})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "select")
	require.Contains(t, q, "from users")
	require.Contains(t, q, "user_id in")
	require.Len(t, args, 3)
}

func Test_buildActionLogsByTypesQuery_OrderedScan(t *testing.T) {
	query, args, err := buildActionLogsByTypesQuery([]string{
		models.ActionAssignmentCompleted,
		models.ActionAssignmentUncompleted,
	})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "from action_logs")
	require.Contains(t, q, "action_type in")
	require.Contains(t, q, "order by created_at, log_id")
	require.Len(t, args, 2)
}
