package services

import (
	"errors"

	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = apierrors.New(apierrors.NotFound, "User not found")
	ErrProjectNotFound     = apierrors.New(apierrors.NotFound, "Project not found")
	ErrProposalNotFound    = apierrors.New(apierrors.NotFound, "Proposal not found")
	ErrCompetitionNotFound = apierrors.New(apierrors.NotFound, "Competition not found")
	ErrSubmissionNotFound  = apierrors.New(apierrors.NotFound, "Submission not found")
	ErrNotificationMissing = apierrors.New(apierrors.NotFound, "Notification not found")

	ErrEmailTaken          = apierrors.New(apierrors.Conflict, "Email already registered")
	ErrDuplicateProposal   = apierrors.New(apierrors.Conflict, "You already submitted a proposal for this project")
	ErrDuplicateSubmission = apierrors.New(apierrors.Conflict, "You already submitted to this competition")

	ErrProjectNotOpen        = apierrors.New(apierrors.InvalidState, "Project is not open for proposals")
	ErrProposalNotPending    = apierrors.New(apierrors.InvalidState, "Proposal has already been reviewed")
	ErrCompetitionNotAccepts = apierrors.New(apierrors.InvalidState, "Competition is not accepting submissions")

	ErrInvalidCredentials = apierrors.New(apierrors.InvalidCredentials, "Invalid credentials")
	ErrAccountBlocked     = apierrors.New(apierrors.Blocked, "Account is blocked")

	ErrPasswordTooShort   = apierrors.New(apierrors.Validation, "Password must be at least 8 characters")
	ErrInvalidRole        = apierrors.New(apierrors.Validation, "Invalid role. Must be 'designer' or 'client'")
	ErrInvalidResetToken  = apierrors.New(apierrors.Validation, "Invalid reset token")
	ErrResetTokenExpired  = apierrors.New(apierrors.Validation, "Reset token expired")
	ErrInvalidPosition    = apierrors.New(apierrors.Validation, "Winner position must be 1, 2 or 3")
	ErrNoFieldsToUpdate   = apierrors.New(apierrors.Validation, "No fields to update")
	ErrCannotModerateSelf = apierrors.New(apierrors.Validation, "You cannot perform this action on your own account")
)

func validation(message string) error {
	return apierrors.New(apierrors.Validation, message)
}

func apiConflict(message string) error {
	return apierrors.New(apierrors.Conflict, message)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
