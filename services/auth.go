package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/services/repositories"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

// AdminAuthService verifies admin credentials and issues both credentials
// the panel uses: the IP-bound session cookie and a bearer token for API
// clients. Failed attempts feed the per-IP lockout.
type AdminAuthService struct {
	context.DefaultService

	repo *repositories.AdminRepository

	sqlSvc     *PostgresService
	sessionSvc *SessionService
	jwtSvc     *JWTService
	emailSvc   *EmailService
	geoSvc     *GeolocationService
}

const ADMIN_AUTH_SVC = "admin_auth_svc"

func (svc AdminAuthService) Id() string {
	return ADMIN_AUTH_SVC
}

func (svc *AdminAuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AdminAuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.sessionSvc = svc.Service(SESSION_SVC).(*SessionService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	svc.geoSvc = svc.Service(GEOLOCATION_SVC).(*GeolocationService)
	svc.repo = repositories.NewAdminRepository(svc.sqlSvc.Db())
	return nil
}

// Login returns the response body plus the opaque session token the
// handler sets as a cookie. Wrong username and wrong password are
// indistinguishable to the caller.
func (svc *AdminAuthService) Login(req *dto.LoginRequest, ip string) (*dto.LoginResponse, string, error) {
	if svc.sessionSvc.IsLockedOut(ip) {
		log.WithField("ip", ip).Warn("Login attempt from locked out IP")
		return nil, "", shared.NewRateLimitedError("too many failed attempts, try again later", 0)
	}

	admin, err := svc.repo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			svc.sessionSvc.RecordFailure(ip)
			return nil, "", shared.NewUnauthorizedError("invalid credentials")
		}
		return nil, "", svc.sqlSvc.HandleError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		svc.sessionSvc.RecordFailure(ip)
		log.WithFields(log.Fields{"username": req.Username, "ip": ip}).Warn("Failed admin login")
		return nil, "", shared.NewUnauthorizedError("invalid credentials")
	}

	svc.sessionSvc.ClearFailures(ip)

	sessionToken, err := svc.sessionSvc.Create(ip, admin.ID)
	if err != nil {
		return nil, "", shared.NewDownstreamError("failed to create session", nil)
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(admin.ID, admin.Username)
	if err != nil {
		return nil, "", shared.NewDownstreamError("failed to issue token", nil)
	}

	now := time.Now()
	if err := svc.repo.RecordLogin(admin.ID, ip, now); err != nil {
		log.WithError(err).WithField("admin_id", admin.ID).Warn("Failed to record admin login")
	}

	go svc.alert(admin.Username, ip, now)

	log.WithFields(log.Fields{"username": admin.Username, "ip": ip}).Info("Admin logged in")

	return &dto.LoginResponse{
		Username:    admin.Username,
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
	}, sessionToken, nil
}

func (svc *AdminAuthService) Logout(sessionToken string) {
	if sessionToken != "" {
		svc.sessionSvc.Invalidate(sessionToken)
	}
}

func (svc *AdminAuthService) alert(username, ip string, at time.Time) {
	geo := svc.geoSvc.LookupIP(ip)
	err := svc.emailSvc.SendAdminLoginAlert(&AdminLoginAlertEmailData{
		Username:  username,
		LoginTime: at.Format(time.RFC1123),
		IP:        ip,
		Location:  geo.Location(),
	})
	if err != nil {
		log.WithError(err).Error("Failed to send admin login alert")
	}
}
