package constants

// ArtworkStatus is the canonical lifecycle state for rows in artworks.
type ArtworkStatus string

// Stable values (store these exact strings in DB).
const (
	ArtworkStatusPending  ArtworkStatus = "PENDING"  // awaiting review
	ArtworkStatusApproved ArtworkStatus = "APPROVED" // live in the public catalog
	ArtworkStatusRejected ArtworkStatus = "REJECTED" // terminal, kept for audit
)

// ArtworkStatuses holds the allowed artwork lifecycle values.
var ArtworkStatuses = []string{
	string(ArtworkStatusPending),
	string(ArtworkStatusApproved),
	string(ArtworkStatusRejected),
}

// SubmissionStatus is the canonical status for rows in submissions.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "PENDING"
	SubmissionStatusApproved SubmissionStatus = "APPROVED"
	SubmissionStatusRejected SubmissionStatus = "REJECTED"
)

// SubmissionStatuses holds the allowed submission status values.
var SubmissionStatuses = []string{
	string(SubmissionStatusPending),
	string(SubmissionStatusApproved),
	string(SubmissionStatusRejected),
}

// ArtistStatus is the canonical status for rows in artists. Artists created
// implicitly during an import start out pending, same as their artworks.
type ArtistStatus string

const (
	ArtistStatusPending  ArtistStatus = "PENDING"
	ArtistStatusApproved ArtistStatus = "APPROVED"
)

// ArtistStatuses holds the allowed artist status values.
var ArtistStatuses = []string{
	string(ArtistStatusPending),
	string(ArtistStatusApproved),
}
