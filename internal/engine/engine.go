package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"zanatli/internal/config"
	"zanatli/internal/domain"
	"zanatli/internal/engine/auth"
	"zanatli/internal/events"
	"zanatli/internal/repo"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// nowString formats timestamps at nanosecond resolution so rows written in
// the same second still sort by creation time.
func (e Engine) nowString() string {
	return e.now().UTC().Format(time.RFC3339Nano)
}

// ErrInvalidCredentials covers both unknown email and wrong password so the
// two are indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid email or password")

// TransitionError reports a job status change outside the lifecycle table.
type TransitionError struct {
	From, To domain.JobStatus
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("invalid job status transition %s -> %s", e.From, e.To)
}

// ensureJobTransition enforces the lifecycle: Pending may move to Accepted or
// Declined, Accepted to Completed.
func ensureJobTransition(from, to domain.JobStatus) error {
	if from.Terminal() {
		return TransitionError{From: from, To: to}
	}
	switch from {
	case domain.JobPending:
		if to == domain.JobAccepted || to == domain.JobDeclined {
			return nil
		}
	case domain.JobAccepted:
		if to == domain.JobCompleted {
			return nil
		}
	}
	return TransitionError{From: from, To: to}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- identity ---

type RegisterOptions struct {
	Email        string
	Password     string
	IsClient     bool
	IsContractor bool
}

func (e Engine) Register(ctx context.Context, opts RegisterOptions) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(opts.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, errors.New("a valid email is required")
	}
	if len(opts.Password) < 8 {
		return domain.User{}, errors.New("password of at least 8 characters is required")
	}
	if !opts.IsClient && !opts.IsContractor {
		return domain.User{}, errors.New("at least one role is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	activeRole := domain.RoleClient
	if !opts.IsClient {
		activeRole = domain.RoleContractor
	}
	u := domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		IsClient:     opts.IsClient,
		IsContractor: opts.IsContractor,
		ActiveRole:   activeRole,
		CreatedAt:    e.nowString(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertUser(ctx, tx, u); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("email %s already registered", email)
		}
		return domain.User{}, err
	}
	if err := e.Events.Append(ctx, tx, "user.registered", "", u.ID, events.EventPayload{"email": u.Email, "roles": u.Roles()}); err != nil {
		return domain.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (e Engine) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	u, err := e.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// AssignContractorRole grants the contractor role to an existing account.
// The grant is one-way; there is no revocation path.
func (e Engine) AssignContractorRole(ctx context.Context, userID string) (domain.User, error) {
	u, err := e.Repo.GetUser(ctx, userID)
	if err != nil {
		return u, err
	}
	if u.IsContractor {
		return u, nil
	}
	u.IsContractor = true
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return u, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateUserRoles(ctx, tx, u); err != nil {
		return u, err
	}
	if err := e.Events.Append(ctx, tx, "role.assigned", "", u.ID, events.EventPayload{"role": domain.RoleContractor}); err != nil {
		return u, err
	}
	return u, tx.Commit()
}

// SetActiveRole switches which held role governs the user's actions. The
// target role must already be held.
func (e Engine) SetActiveRole(ctx context.Context, userID, role string) (domain.User, error) {
	u, err := e.Repo.GetUser(ctx, userID)
	if err != nil {
		return u, err
	}
	if role != domain.RoleClient && role != domain.RoleContractor {
		return u, fmt.Errorf("unknown role %q", role)
	}
	if !u.HasRole(role) {
		return u, auth.ForbiddenRoleError{Required: role}
	}
	if u.ActiveRole == role {
		return u, nil
	}
	from := u.ActiveRole
	u.ActiveRole = role
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return u, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateUserRoles(ctx, tx, u); err != nil {
		return u, err
	}
	if err := e.Events.Append(ctx, tx, "role.switched", "", u.ID, events.EventPayload{"from": from, "to": role}); err != nil {
		return u, err
	}
	return u, tx.Commit()
}

// --- contractor profiles ---

type ProfileOptions struct {
	FullName    string
	CompanyName string
	Bio         string
	Services    string
	Location    string
	PriceLevel  int
}

func (o ProfileOptions) validate() error {
	if strings.TrimSpace(o.FullName) == "" {
		return errors.New("fullName is required")
	}
	if strings.TrimSpace(o.Services) == "" {
		return errors.New("services is required")
	}
	if strings.TrimSpace(o.Location) == "" {
		return errors.New("location is required")
	}
	if o.PriceLevel < 1 || o.PriceLevel > 3 {
		return errors.New("priceLevel must be between 1 and 3")
	}
	return nil
}

func (e Engine) CreateContractorProfile(ctx context.Context, actor auth.Actor, opts ProfileOptions) (domain.ContractorProfile, error) {
	if err := auth.RequireRole(actor, domain.RoleContractor); err != nil {
		return domain.ContractorProfile{}, err
	}
	if err := opts.validate(); err != nil {
		return domain.ContractorProfile{}, err
	}
	now := e.nowString()
	p := domain.ContractorProfile{
		ID:          uuid.New().String(),
		UserID:      actor.UserID,
		FullName:    opts.FullName,
		CompanyName: opts.CompanyName,
		Bio:         opts.Bio,
		Services:    opts.Services,
		Location:    opts.Location,
		PriceLevel:  opts.PriceLevel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return p, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertContractorProfile(ctx, tx, p); err != nil {
		if isUniqueViolation(err) {
			return p, errors.New("contractor profile already exists")
		}
		return p, err
	}
	if err := e.Events.Append(ctx, tx, "profile.created", "", actor.UserID, events.EventPayload{"profile_id": p.ID}); err != nil {
		return p, err
	}
	return p, tx.Commit()
}

func (e Engine) UpdateContractorProfile(ctx context.Context, actor auth.Actor, opts ProfileOptions) (domain.ContractorProfile, error) {
	if err := auth.RequireRole(actor, domain.RoleContractor); err != nil {
		return domain.ContractorProfile{}, err
	}
	if err := opts.validate(); err != nil {
		return domain.ContractorProfile{}, err
	}
	p, err := e.Repo.GetContractorProfileByUser(ctx, actor.UserID)
	if err != nil {
		return p, err
	}
	p.FullName = opts.FullName
	p.CompanyName = opts.CompanyName
	p.Bio = opts.Bio
	p.Services = opts.Services
	p.Location = opts.Location
	p.PriceLevel = opts.PriceLevel
	p.UpdatedAt = e.nowString()
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return p, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateContractorProfile(ctx, tx, p); err != nil {
		return p, err
	}
	if err := e.Events.Append(ctx, tx, "profile.updated", "", actor.UserID, events.EventPayload{"profile_id": p.ID}); err != nil {
		return p, err
	}
	return p, tx.Commit()
}

// --- job lifecycle ---

type JobCreateOptions struct {
	ContractorID  string
	Description   string
	PreferredDate string
}

// CreateJob enters a new job at Pending. Only a client may create a job, and
// the target must hold the contractor role. Participants are fixed here for
// the life of the job.
func (e Engine) CreateJob(ctx context.Context, actor auth.Actor, opts JobCreateOptions) (domain.Job, error) {
	if err := auth.RequireRole(actor, domain.RoleClient); err != nil {
		return domain.Job{}, err
	}
	if strings.TrimSpace(opts.Description) == "" {
		return domain.Job{}, errors.New("description is required")
	}
	if _, err := time.Parse("2006-01-02", opts.PreferredDate); err != nil {
		return domain.Job{}, fmt.Errorf("preferredDate must be a YYYY-MM-DD date: %w", err)
	}
	if opts.ContractorID == actor.UserID {
		return domain.Job{}, errors.New("cannot request a job from yourself")
	}
	contractor, err := e.Repo.GetUser(ctx, opts.ContractorID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Job{}, fmt.Errorf("contractor %s %w", opts.ContractorID, repo.ErrNotFound)
		}
		return domain.Job{}, err
	}
	if !contractor.IsContractor {
		return domain.Job{}, fmt.Errorf("user %s is not a contractor", opts.ContractorID)
	}
	now := e.nowString()
	j := domain.Job{
		ID:            uuid.New().String(),
		ClientID:      actor.UserID,
		ContractorID:  opts.ContractorID,
		Description:   opts.Description,
		PreferredDate: opts.PreferredDate,
		Status:        domain.JobPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return j, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertJob(ctx, tx, j); err != nil {
		return j, err
	}
	if err := e.Events.Append(ctx, tx, "job.created", j.ID, actor.UserID, events.EventPayload{
		"contractor_id": j.ContractorID,
		"status":        j.Status,
	}); err != nil {
		return j, err
	}
	return j, tx.Commit()
}

// AcceptJob moves Pending to Accepted. Only the assigned contractor may
// accept; no message is required.
func (e Engine) AcceptJob(ctx context.Context, actor auth.Actor, jobID string) (domain.Job, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return j, err
	}
	if err := auth.RequireContractor(actor, j); err != nil {
		return j, err
	}
	if err := ensureJobTransition(j.Status, domain.JobAccepted); err != nil {
		return j, err
	}
	from := j.Status
	j.Status = domain.JobAccepted
	j.UpdatedAt = e.nowString()
	return e.saveTransition(ctx, j, actor, "job.accepted", events.EventPayload{"from": from, "to": j.Status})
}

// DeclineJob moves Pending to Declined. The decline is the one transition
// that carries a mandatory payload: a non-empty reason, persisted as the
// job's response message.
func (e Engine) DeclineJob(ctx context.Context, actor auth.Actor, jobID, reason string) (domain.Job, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return j, err
	}
	if err := auth.RequireContractor(actor, j); err != nil {
		return j, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return j, errors.New("a decline reason is required")
	}
	if err := ensureJobTransition(j.Status, domain.JobDeclined); err != nil {
		return j, err
	}
	from := j.Status
	j.Status = domain.JobDeclined
	j.ResponseMessage = &reason
	j.UpdatedAt = e.nowString()
	return e.saveTransition(ctx, j, actor, "job.declined", events.EventPayload{"from": from, "to": j.Status, "reason": reason})
}

// CompleteJob moves Accepted to Completed. Either party may mark completion;
// completing makes the job review-eligible for the client.
func (e Engine) CompleteJob(ctx context.Context, actor auth.Actor, jobID string) (domain.Job, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return j, err
	}
	if err := auth.RequireParticipant(actor, j); err != nil {
		return j, err
	}
	if err := ensureJobTransition(j.Status, domain.JobCompleted); err != nil {
		return j, err
	}
	from := j.Status
	j.Status = domain.JobCompleted
	j.UpdatedAt = e.nowString()
	return e.saveTransition(ctx, j, actor, "job.completed", events.EventPayload{"from": from, "to": j.Status})
}

func (e Engine) saveTransition(ctx context.Context, j domain.Job, actor auth.Actor, evtType string, payload events.EventPayload) (domain.Job, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return j, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateJobStatus(ctx, tx, j); err != nil {
		return j, err
	}
	if err := e.Events.Append(ctx, tx, evtType, j.ID, actor.UserID, payload); err != nil {
		return j, err
	}
	return j, tx.Commit()
}

// DeleteJob removes a still-Pending job along with any messages and photos
// already attached to it.
func (e Engine) DeleteJob(ctx context.Context, actor auth.Actor, jobID string) error {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := auth.RequireClient(actor, j); err != nil {
		return err
	}
	if j.Status != domain.JobPending {
		return fmt.Errorf("only pending jobs can be deleted (status %s)", j.Status)
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteJobAttachments(ctx, tx, jobID); err != nil {
		return err
	}
	if err := e.Repo.DeleteJob(ctx, tx, jobID); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "job.deleted", jobID, actor.UserID, events.EventPayload{}); err != nil {
		return err
	}
	return tx.Commit()
}

// GetJobFor returns a job after checking the actor is a participant.
func (e Engine) GetJobFor(ctx context.Context, actor auth.Actor, jobID string) (domain.Job, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return j, err
	}
	if err := auth.RequireParticipant(actor, j); err != nil {
		return j, err
	}
	return j, nil
}

// --- reviews ---

type ReviewOptions struct {
	Rating  int
	Comment string
}

// CreateReview attaches the single review a completed job may carry. Only
// the job's client may review, and only once.
func (e Engine) CreateReview(ctx context.Context, actor auth.Actor, jobID string, opts ReviewOptions) (domain.Review, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return domain.Review{}, err
	}
	if err := auth.RequireClient(actor, j); err != nil {
		return domain.Review{}, err
	}
	if j.Status != domain.JobCompleted {
		return domain.Review{}, fmt.Errorf("job must be Completed to review (status %s)", j.Status)
	}
	if opts.Rating < 1 || opts.Rating > 5 {
		return domain.Review{}, errors.New("rating between 1 and 5 is required")
	}
	rv := domain.Review{
		ID:        uuid.New().String(),
		JobID:     jobID,
		ClientID:  actor.UserID,
		Rating:    opts.Rating,
		Comment:   strings.TrimSpace(opts.Comment),
		CreatedAt: e.nowString(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return rv, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertReview(ctx, tx, rv); err != nil {
		if isUniqueViolation(err) {
			return rv, fmt.Errorf("review already exists for job %s", jobID)
		}
		return rv, err
	}
	if err := e.Events.Append(ctx, tx, "review.created", jobID, actor.UserID, events.EventPayload{"rating": rv.Rating}); err != nil {
		return rv, err
	}
	return rv, tx.Commit()
}

// --- messages ---

// SendMessage appends a chat message to a job. Both participants may write,
// whatever the job's status and whichever role is active.
func (e Engine) SendMessage(ctx context.Context, actor auth.Actor, jobID, text string) (domain.Message, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return domain.Message{}, err
	}
	if err := auth.RequireParticipant(actor, j); err != nil {
		return domain.Message{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, errors.New("message text is required")
	}
	m := domain.Message{
		ID:        uuid.New().String(),
		JobID:     jobID,
		SenderID:  actor.UserID,
		Text:      text,
		CreatedAt: e.nowString(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return m, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertMessage(ctx, tx, m); err != nil {
		return m, err
	}
	if err := e.Events.Append(ctx, tx, "message.sent", jobID, actor.UserID, events.EventPayload{}); err != nil {
		return m, err
	}
	if err := tx.Commit(); err != nil {
		return m, err
	}
	return e.Repo.GetMessage(ctx, m.ID)
}

func (e Engine) ListMessages(ctx context.Context, actor auth.Actor, jobID string) ([]domain.Message, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireParticipant(actor, j); err != nil {
		return nil, err
	}
	return e.Repo.ListMessages(ctx, jobID)
}

// --- photos ---

type PhotoUpload struct {
	FileName    string
	ContentType string
	Data        []byte
	Type        int
}

func (e Engine) validateUpload(up PhotoUpload) error {
	if len(up.Data) == 0 {
		return errors.New("file is required")
	}
	if e.Config != nil {
		if int64(len(up.Data)) > e.Config.Uploads.MaxBytes {
			return fmt.Errorf("file exceeds maximum size of %d bytes", e.Config.Uploads.MaxBytes)
		}
		if len(e.Config.Uploads.ContentTypes) > 0 {
			ok := false
			for _, ct := range e.Config.Uploads.ContentTypes {
				if strings.EqualFold(ct, up.ContentType) {
					ok = true
					break
				}
			}
			if !ok {
				return fmt.Errorf("content type %s is not allowed", up.ContentType)
			}
		}
	}
	return nil
}

func (e Engine) addPhoto(ctx context.Context, ownerKind, ownerID, actorID string, up PhotoUpload) (domain.Photo, error) {
	if err := e.validateUpload(up); err != nil {
		return domain.Photo{}, err
	}
	p := domain.Photo{
		ID:          uuid.New().String(),
		OwnerKind:   ownerKind,
		OwnerID:     ownerID,
		Type:        up.Type,
		FileName:    up.FileName,
		ContentType: up.ContentType,
		Size:        int64(len(up.Data)),
		UploadedAt:  e.nowString(),
		Data:        up.Data,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return p, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertPhoto(ctx, tx, p); err != nil {
		return p, err
	}
	jobID := ""
	if ownerKind == repo.PhotoOwnerJob {
		jobID = ownerID
	}
	if err := e.Events.Append(ctx, tx, "photo.uploaded", jobID, actorID, events.EventPayload{
		"owner_kind": ownerKind,
		"photo_id":   p.ID,
		"type":       p.Type,
	}); err != nil {
		return p, err
	}
	return p, tx.Commit()
}

// AddContractorPhoto stores a profile or portfolio photo on the actor's own
// contractor identity.
func (e Engine) AddContractorPhoto(ctx context.Context, actor auth.Actor, up PhotoUpload) (domain.Photo, error) {
	if err := auth.RequireRole(actor, domain.RoleContractor); err != nil {
		return domain.Photo{}, err
	}
	if up.Type != domain.PhotoProfile && up.Type != domain.PhotoPortfolio {
		return domain.Photo{}, fmt.Errorf("unknown photo type %d", up.Type)
	}
	return e.addPhoto(ctx, repo.PhotoOwnerContractor, actor.UserID, actor.UserID, up)
}

func (e Engine) DeleteContractorPhoto(ctx context.Context, actor auth.Actor, photoID string) error {
	if err := auth.RequireRole(actor, domain.RoleContractor); err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeletePhoto(ctx, tx, repo.PhotoOwnerContractor, actor.UserID, photoID); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "photo.deleted", "", actor.UserID, events.EventPayload{"photo_id": photoID}); err != nil {
		return err
	}
	return tx.Commit()
}

// AddJobPhoto attaches a photo to a job. Uploads are independent requests;
// a failure here never rolls back the job it belongs to.
func (e Engine) AddJobPhoto(ctx context.Context, actor auth.Actor, jobID string, up PhotoUpload) (domain.Photo, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return domain.Photo{}, err
	}
	if err := auth.RequireParticipant(actor, j); err != nil {
		return domain.Photo{}, err
	}
	return e.addPhoto(ctx, repo.PhotoOwnerJob, jobID, actor.UserID, up)
}

func (e Engine) ListJobPhotos(ctx context.Context, actor auth.Actor, jobID string) ([]domain.Photo, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireParticipant(actor, j); err != nil {
		return nil, err
	}
	return e.Repo.ListPhotos(ctx, repo.PhotoOwnerJob, jobID, nil)
}

func (e Engine) GetJobPhoto(ctx context.Context, actor auth.Actor, jobID, photoID string) (domain.Photo, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return domain.Photo{}, err
	}
	if err := auth.RequireParticipant(actor, j); err != nil {
		return domain.Photo{}, err
	}
	return e.Repo.GetPhoto(ctx, repo.PhotoOwnerJob, jobID, photoID)
}

func (e Engine) DeleteJobPhoto(ctx context.Context, actor auth.Actor, jobID, photoID string) error {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := auth.RequireParticipant(actor, j); err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeletePhoto(ctx, tx, repo.PhotoOwnerJob, jobID, photoID); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "photo.deleted", jobID, actor.UserID, events.EventPayload{"photo_id": photoID}); err != nil {
		return err
	}
	return tx.Commit()
}

// --- dashboards ---

type ClientDashboard struct {
	JobStats       domain.JobStats        `json:"jobStats"`
	ReviewableJobs []domain.ReviewableJob `json:"reviewableJobs"`
}

type ContractorDashboard struct {
	JobStats    domain.JobStats `json:"jobStats"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
}

func (e Engine) GetClientDashboard(ctx context.Context, actor auth.Actor) (ClientDashboard, error) {
	if err := auth.RequireRole(actor, domain.RoleClient); err != nil {
		return ClientDashboard{}, err
	}
	stats, err := e.Repo.CountJobsByStatus(ctx, "client_id", actor.UserID)
	if err != nil {
		return ClientDashboard{}, err
	}
	reviewable, err := e.Repo.ListReviewableJobs(ctx, actor.UserID)
	if err != nil {
		return ClientDashboard{}, err
	}
	if reviewable == nil {
		reviewable = []domain.ReviewableJob{}
	}
	return ClientDashboard{JobStats: stats, ReviewableJobs: reviewable}, nil
}

func (e Engine) GetContractorDashboard(ctx context.Context, actor auth.Actor) (ContractorDashboard, error) {
	if err := auth.RequireRole(actor, domain.RoleContractor); err != nil {
		return ContractorDashboard{}, err
	}
	stats, err := e.Repo.CountJobsByStatus(ctx, "contractor_id", actor.UserID)
	if err != nil {
		return ContractorDashboard{}, err
	}
	rating, count, err := e.Repo.ContractorRating(ctx, actor.UserID)
	if err != nil {
		return ContractorDashboard{}, err
	}
	return ContractorDashboard{JobStats: stats, Rating: rating, ReviewCount: count}, nil
}
