package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/proninteam/collect_go_server/config"
)

type Service struct {
	cfg         *config.EmailConfig
	projectName string
}

func NewService(cfg *config.EmailConfig, projectName string) *Service {
	return &Service{cfg: cfg, projectName: projectName}
}

// SendCollectCreated 通知作者收款活动创建成功
func (s *Service) SendCollectCreated(to, collectName string, collectID int64) error {
	subject := fmt.Sprintf("您的收款活动已创建 - %s", s.projectName)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">收款活动创建成功</h2>
        <p>您好，</p>
        <p>您的收款活动「%s」（ID: %d）已成功创建，现在可以接受付款了。</p>
        <p>祝收款顺利！</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由 %s 系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, collectName, collectID, s.projectName)

	return s.sendHTML(to, subject, body)
}

// SendPaymentCreated 通知活动作者收到新付款
func (s *Service) SendPaymentCreated(to, collectName string, amount float64) error {
	subject := fmt.Sprintf("您的活动收到新付款 - %s", s.projectName)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">收到新付款</h2>
        <p>您好，</p>
        <p>您的收款活动「%s」收到一笔新付款：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; margin: 20px 0;">
            %.2f
        </div>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由 %s 系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, collectName, amount, s.projectName)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
