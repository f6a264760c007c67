package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"matchpulse/analysis-api/internal/domain/llm"
	"matchpulse/analysis-api/internal/infrastructure/metrics"
)

// historyWindow bounds how much client-supplied history is forwarded
// upstream; older messages are dropped.
const historyWindow = 10

const personaSystemPrompt = "你是一位资深球迷兼情绪陪伴者，专注安慰因足球（英超/西甲/德甲/意甲/法甲）或篮球（NBA）比赛预测失败而沮丧的玩家。\n" +
	"\n" +
	"【足球场景】当用户提到五大联赛球队（如曼联、皇马、拜仁等）：\n" +
	"- 用真实背景共情：'又让利物浦最后10分钟绝杀了？这剧本太熟悉了…'\n" +
	"- 可提及近期赛况、历史恩怨或战术痛点（如'克洛普的高位逼抢今天被打穿了'），但不长篇分析；\n" +
	"- 安慰要结合球队特质：对传统豪门说'底蕴在，反弹快'，对小球队说'能拼到这已经值得骄傲'。\n" +
	"\n" +
	"【篮球场景】当用户提到NBA球队（如湖人、勇士、凯尔特人等）：\n" +
	"- 用联盟语境共鸣：'G6汤又隐身了？这轮系列赛看得人血压飙升！'\n" +
	"- 可轻点现实因素：负荷管理、伤病、裁判尺度（如'最后那个犯规不吹确实离谱'），但不引战；\n" +
	"- 安慰贴合球队处境：争冠队说'还有抢七机会'，重建队说'年轻核心拼到最后一秒已超预期'。\n" +
	"\n" +
	"【通用原则】\n" +
	"- 先共情（骂/叹都行），再给1个微小行动（'去投10个三分冷静下''喝口冰啤酒压压惊'）；\n" +
	"- 绝不说'看开点''输赢正常'这类空话，也绝不诊断心理或法律问题；\n" +
	"- 语气像一起熬夜看球的朋友：热血、真实、带点江湖气，60–150字，口语化，禁用术语堆砌。\n"

// Message is one client-supplied history entry. A blank role is treated
// as a user message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ReplyInput carries one chat request.
type ReplyInput struct {
	Text      string
	History   []Message
	SessionID *string
}

// ReplyOutput is the assistant reply with its server-side timestamp.
type ReplyOutput struct {
	Reply     string
	CreatedAt time.Time
}

// Service relays persona-prompted chat to the completion gateway and
// persists the resulting exchange.
type Service struct {
	completer llm.Completer
	repo      TurnRepository
	sink      ExchangeSink
	logger    zerolog.Logger
}

// NewService wires the chat service. sink may be nil to disable exchange
// artifacts.
func NewService(completer llm.Completer, repo TurnRepository, sink ExchangeSink, logger zerolog.Logger) *Service {
	return &Service{
		completer: completer,
		repo:      repo,
		sink:      sink,
		logger:    logger,
	}
}

// Reply runs one chat round trip. Upstream and persistence failures are
// surfaced to the caller; sink failures are logged and swallowed.
func (s *Service) Reply(ctx context.Context, in ReplyInput) (*ReplyOutput, error) {
	reply, err := s.completer.ChatCompletion(ctx, buildMessages(in), llm.ChatOptions{})
	if err != nil {
		return nil, err
	}
	createdAt := time.Now().UTC()

	if err := s.repo.SaveExchange(ctx, in.SessionID, in.Text, reply); err != nil {
		return nil, err
	}
	metrics.ChatExchangesTotal.Inc()

	if s.sink != nil {
		exchange := Exchange{
			SessionID: in.SessionID,
			CreatedAt: createdAt,
			Input:     in.Text,
			Reply:     reply,
		}
		if err := s.sink.Record(ctx, exchange); err != nil {
			s.logger.Warn().Err(err).Msg("exchange artifact write failed")
		}
	}

	return &ReplyOutput{Reply: reply, CreatedAt: createdAt}, nil
}

func buildMessages(in ReplyInput) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, historyWindow+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: personaSystemPrompt,
	})

	history := in.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, m := range history {
		role := m.Role
		if role == "" {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: in.Text,
	})
}

// ListTurns returns a page of stored turns, optionally scoped to a session.
func (s *Service) ListTurns(ctx context.Context, filter TurnFilter) (*TurnPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Order != OrderAsc {
		filter.Order = OrderDesc
	}
	return s.repo.FindTurns(ctx, filter)
}

// ListSessions returns per-session aggregates, most recently active first.
func (s *Service) ListSessions(ctx context.Context, page, pageSize int) (*SessionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.SessionAggregates(ctx, page, pageSize)
}
