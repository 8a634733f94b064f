package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("In Bearbeitung")
	require.True(t, ok)
	assert.Equal(t, StatusInBearbeitung, status)

	_, ok = ParseStatus("IN_BEARBEITUNG")
	assert.False(t, ok, "internal values are not display names")

	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestStatusRankOrdering(t *testing.T) {
	assert.Less(t, StatusOffen.Rank(), StatusInBearbeitung.Rank())
	assert.Less(t, StatusInBearbeitung.Rank(), StatusErledigt.Rank())
	assert.Less(t, StatusErledigt.Rank(), StatusMangelAbgelehnt.Rank())
}

func TestApplyWorkflowPatchStatusErledigtSetsDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Submission{Status: StatusOffen}

	status := StatusErledigt
	s.ApplyWorkflowPatch(&status, nil, now)

	assert.Equal(t, StatusErledigt, s.Status)
	require.NotNil(t, s.ErledigtAm)
	assert.Equal(t, now, *s.ErledigtAm)
}

func TestApplyWorkflowPatchStatusErledigtKeepsExistingDate(t *testing.T) {
	existing := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s := Submission{Status: StatusInBearbeitung, ErledigtAm: &existing}

	status := StatusErledigt
	s.ApplyWorkflowPatch(&status, nil, time.Now())

	require.NotNil(t, s.ErledigtAm)
	assert.Equal(t, existing, *s.ErledigtAm)
}

func TestApplyWorkflowPatchDateForcesStatus(t *testing.T) {
	s := Submission{Status: StatusOffen}

	done := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	donePtr := &done
	s.ApplyWorkflowPatch(nil, &donePtr, time.Now())

	assert.Equal(t, StatusErledigt, s.Status)
	require.NotNil(t, s.ErledigtAm)
	assert.Equal(t, done, *s.ErledigtAm)
}

func TestApplyWorkflowPatchClearingDateKeepsStatus(t *testing.T) {
	done := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	s := Submission{Status: StatusErledigt, ErledigtAm: &done}

	var cleared *time.Time
	s.ApplyWorkflowPatch(nil, &cleared, time.Now())

	assert.Nil(t, s.ErledigtAm)
	assert.Equal(t, StatusErledigt, s.Status, "clearing the date must not touch the status")
}

func TestAdminRoleRank(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleStaff))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.False(t, RoleStaff.AtLeast(RoleAdmin))
	assert.False(t, AdminRole("SUPER_ADMIN").AtLeast(RoleStaff), "unknown roles rank below everything")
}
