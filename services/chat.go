package services

import (
	stdContext "context"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/model"
	"github.com/ColdByDefault/Portfolio-sub001/services/repositories"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

const (
	chatRoleUser      = "user"
	chatRoleAssistant = "assistant"

	// Messages a single session may send before it must be rotated.
	maxMessagesPerSession = 20

	// History turns replayed to the model per request.
	chatHistoryLimit = 10
)

// ChatService orchestrates the chatbot downstream action: session
// bookkeeping, per-session caps, history replay and log persistence.
// Rate limiting and gate checks have already run by the time a request
// reaches Respond.
type ChatService struct {
	context.DefaultService

	repo *repositories.ChatRepository

	sqlSvc     *PostgresService
	llmSvc     *LLMService
	monitorSvc *MonitoringService
}

const CHAT_SVC = "chat_svc"

func (svc ChatService) Id() string {
	return CHAT_SVC
}

func (svc *ChatService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChatService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.llmSvc = svc.Service(LLM_SVC).(*LLMService)
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.repo = repositories.NewChatRepository(svc.sqlSvc.Db())
	return nil
}

// Respond produces the assistant reply for a chat message. A missing
// session id starts a fresh session; the returned response always carries
// the session id the client should continue with.
func (svc *ChatService) Respond(ctx stdContext.Context, req *dto.ChatRequest, ip string) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, shared.NewValidationError("message is required", map[string]string{"code": shared.ChatErrInvalidInput})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	used, err := svc.repo.CountBySession(sessionID, chatRoleUser)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if used >= maxMessagesPerSession {
		log.WithFields(log.Fields{"session_id": sessionID, "ip": ip}).Info("Chat session message cap reached")
		appErr := shared.NewRateLimitedError("session message limit reached, start a new session", 0)
		appErr.Data = map[string]string{"code": shared.ChatErrRateLimitExceeded}
		return nil, appErr
	}

	history, err := svc.repo.RecentBySession(sessionID, chatHistoryLimit)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	messages := make([]llmMessage, 0, len(history)+1)
	for i := range history {
		messages = append(messages, llmMessage{Role: history[i].Role, Content: history[i].Message})
	}
	if ctxNote := strings.TrimSpace(req.Context); ctxNote != "" {
		messages = append(messages, llmMessage{Role: "system", Content: "Page context: " + ctxNote})
	}

	reply, err := svc.llmSvc.Complete(ctx, messages, message)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	svc.persistLog(&model.ChatLog{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		IP:        ip,
		Role:      chatRoleUser,
		Message:   message,
		CreatedAt: now,
	})
	svc.persistLog(&model.ChatLog{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		IP:        ip,
		Role:      chatRoleAssistant,
		Message:   reply,
		CreatedAt: now,
	})

	svc.monitorSvc.RecordChat()

	return &dto.ChatResponse{
		Reply:     reply,
		SessionID: sessionID,
		Remaining: maxMessagesPerSession - int(used) - 1,
	}, nil
}

// Log persistence is best effort; a storage hiccup must not eat a reply
// the model already produced.
func (svc *ChatService) persistLog(entry *model.ChatLog) {
	if err := svc.repo.Create(entry); err != nil {
		log.WithError(err).WithField("session_id", entry.SessionID).Error("Failed to persist chat log")
	}
}

// ListLogs backs the admin chat log view.
func (svc *ChatService) ListLogs(page, limit int) (*dto.ChatLogListResponse, error) {
	logs, total, err := svc.repo.List(page, limit)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.ChatLogListResponse{
		Logs:  make([]dto.ChatLogInfo, 0, len(logs)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range logs {
		resp.Logs = append(resp.Logs, dto.ChatLogInfo{
			ID:        logs[i].ID,
			SessionID: logs[i].SessionID,
			IP:        logs[i].IP,
			Role:      logs[i].Role,
			Message:   logs[i].Message,
			CreatedAt: logs[i].CreatedAt.Unix(),
		})
	}
	return resp, nil
}
