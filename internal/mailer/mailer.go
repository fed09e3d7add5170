package mailer

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type kind struct {
	template string
	subject  string
	data     func() any
}

var kinds = map[string]kind{
	domain.MailTypeWelcome: {
		template: "welcome.html",
		subject:  "招聘平台 - 欢迎注册",
		data:     func() any { return &domain.WelcomeMailData{} },
	},
	domain.MailTypeVerifyEmail: {
		template: "verify_email.html",
		subject:  "招聘平台 - 邮箱验证",
		data:     func() any { return &domain.VerifyEmailMailData{} },
	},
}

// envelope 与 domain.MailMessage 的 JSON 格式一致，Data 延迟到确定邮件类型之后再解析
type envelope struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// Compose 把队列中的消息体转换成可以直接发送的邮件，返回的错误说明消息本身有问题，不应该重新入队
func Compose(body []byte, from string) (*mail.Msg, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	k, ok := kinds[env.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型: %q", env.Type)
	}

	data := k.data()
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
		}
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(env.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	m.Subject(k.subject)
	if err := m.SetBodyHTMLTemplate(templates.Lookup(k.template), data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}

	return m, nil
}
