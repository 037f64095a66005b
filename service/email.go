package service

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"fintrack/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("邮件服务未启用，请配置 email.enabled=true")

// mailSender 发送邮件，便于测试替换
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg    *config.EmailConfig
	sender mailSender
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Enabled 邮件服务是否可用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// ReportAttachment 邮件附件
type ReportAttachment struct {
	Filename string
	Data     []byte
}

// SendReport 发送财务报表邮件，附件为导出的表格
func (s *EmailService) SendReport(toEmail, name string, months int, attachment ReportAttachment) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	if strings.TrimSpace(toEmail) == "" {
		return errors.New("收件人不能为空")
	}

	body, err := s.generateReportEmailBody(name, months, time.Now())
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.From, "fintrack"))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("[fintrack] Financial report, last %d months", months))
	m.SetBody("text/html", body)
	if attachment.Filename != "" {
		data := attachment.Data
		m.Attach(attachment.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

var reportEmailTmpl = template.Must(template.New("report").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>fintrack</h1>
        </div>
        <div class="content">
            <p>Hello <strong>{{.Name}}</strong>,</p>
            <p>Your financial report for the last {{.Months}} months is attached.</p>
            <p>Generated on {{.Date}}.</p>
        </div>
        <div class="footer">
            <p>This message was sent automatically, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`))

// generateReportEmailBody 生成报表邮件内容
func (s *EmailService) generateReportEmailBody(name string, months int, now time.Time) (string, error) {
	if name == "" {
		name = "there"
	}
	var sb strings.Builder
	err := reportEmailTmpl.Execute(&sb, struct {
		Name   string
		Months int
		Date   string
	}{name, months, now.Format("02 Jan 2006")})
	if err != nil {
		return "", fmt.Errorf("生成邮件内容失败: %w", err)
	}
	return sb.String(), nil
}
