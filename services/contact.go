package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/model"
	"github.com/ColdByDefault/Portfolio-sub001/services/repositories"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

// ContactService runs the contact form pipeline past the point where the
// gate middleware hands over: email blocklist, spam classification,
// frequency tracking, the audit trail and the owner notification.
type ContactService struct {
	context.DefaultService

	repo *repositories.ContactRepository

	sqlSvc       *PostgresService
	spamSvc      *SpamService
	trackerSvc   *SubmissionTrackerService
	blocklistSvc *BlocklistService
	geoSvc       *GeolocationService
	emailSvc     *EmailService
	monitorSvc   *MonitoringService
}

const CONTACT_SVC = "contact_svc"

func (svc ContactService) Id() string {
	return CONTACT_SVC
}

func (svc *ContactService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContactService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.spamSvc = svc.Service(SPAM_SVC).(*SpamService)
	svc.trackerSvc = svc.Service(SUBMISSION_TRACKER_SVC).(*SubmissionTrackerService)
	svc.blocklistSvc = svc.Service(BLOCKLIST_SVC).(*BlocklistService)
	svc.geoSvc = svc.Service(GEOLOCATION_SVC).(*GeolocationService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.repo = repositories.NewContactRepository(svc.sqlSvc.Db())
	return nil
}

// Submit classifies and, when accepted, delivers a contact submission.
// Every classified submission lands in the audit trail regardless of
// outcome; rejected ones never count against the frequency tracker.
func (svc *ContactService) Submit(req *dto.ContactRequest, ip, userAgent string) (*dto.ContactResponse, error) {
	if svc.blocklistSvc.IsBlockedEmail(req.Email) {
		svc.audit(req, ip, userAgent, Classification{Reason: ReasonBlockedEmail}, "")
		svc.monitorSvc.RecordRejection(ReasonBlockedEmail)
		return nil, shared.NewAccessDeniedError()
	}

	// Classify sanitizes the request fields in place.
	cls := svc.spamSvc.Classify(req, ip)
	if !cls.Accepted {
		svc.audit(req, ip, userAgent, cls, "")
		svc.monitorSvc.RecordRejection(cls.Reason)
		return nil, shared.NewPolicyError("submission rejected")
	}

	if err := svc.trackerSvc.CheckAndRecord(ip, req.Email); err != nil {
		svc.audit(req, ip, userAgent, Classification{Score: cls.Score, Reason: ReasonFrequency}, "")
		svc.monitorSvc.RecordRejection(ReasonFrequency)
		return nil, err
	}

	geo := svc.geoSvc.LookupIP(ip)
	reference := svc.audit(req, ip, userAgent, cls, geo.Country)
	svc.monitorSvc.RecordSubmission()

	// Delivery is part of the request: an accepted submission that cannot
	// be delivered is reported as a failure, not silently dropped.
	if err := svc.notify(req, ip, geo); err != nil {
		return nil, err
	}

	return &dto.ContactResponse{Reference: reference}, nil
}

// audit writes the classification outcome to the submission trail and
// returns the row id, which doubles as the client-facing reference.
func (svc *ContactService) audit(req *dto.ContactRequest, ip, userAgent string, cls Classification, country string) string {
	row := &model.ContactSubmission{
		ID:        uuid.NewString(),
		IP:        ip,
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Accepted:  cls.Accepted,
		Reason:    cls.Reason,
		SpamScore: cls.Score,
		Country:   country,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	if err := svc.repo.Create(row); err != nil {
		log.WithError(err).WithField("ip", ip).Error("Failed to write submission audit row")
	}
	return row.ID
}

func (svc *ContactService) notify(req *dto.ContactRequest, ip string, geo *GeoInfo) error {
	err := svc.emailSvc.SendContactNotification(&ContactNotificationEmailData{
		Name:       req.Name,
		Email:      req.Email,
		Subject:    req.Subject,
		Message:    req.Message,
		IP:         ip,
		Location:   geo.Location(),
		ReceivedAt: time.Now().Format(time.RFC1123),
	})
	if err != nil {
		log.WithError(err).WithField("email", req.Email).Error("Failed to send contact notification")
		return shared.NewDownstreamError("failed to deliver message", nil)
	}
	return nil
}

// ListSubmissions backs the admin submissions view. outcome is "accepted",
// "rejected" or empty for all.
func (svc *ContactService) ListSubmissions(page, limit int, outcome string) (*dto.SubmissionListResponse, error) {
	rows, total, err := svc.repo.List(page, limit, outcome)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.SubmissionListResponse{
		Submissions: make([]dto.SubmissionInfo, 0, len(rows)),
		Total:       total,
		Page:        page,
		Limit:       limit,
	}
	for i := range rows {
		resp.Submissions = append(resp.Submissions, dto.SubmissionInfo{
			ID:        rows[i].ID,
			IP:        rows[i].IP,
			Name:      rows[i].Name,
			Email:     rows[i].Email,
			Subject:   rows[i].Subject,
			Message:   rows[i].Message,
			Accepted:  rows[i].Accepted,
			Reason:    rows[i].Reason,
			SpamScore: rows[i].SpamScore,
			Country:   rows[i].Country,
			CreatedAt: rows[i].CreatedAt.Unix(),
		})
	}
	return resp, nil
}
