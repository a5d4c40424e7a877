package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ignatzorin/levkonnect-backend/internal/logger"
)

// Mailer отправляет транзакционные письма по SMTP.
// Все отправки best-effort: ошибка логируется и не прерывает процесс.
type Mailer struct {
	dialer       *gomail.Dialer
	from         string
	supportEmail string
	frontendURL  string
}

func New(host string, port int, user, password, from, supportEmail, frontendURL string) *Mailer {
	return &Mailer{
		dialer:       gomail.NewDialer(host, port, user, password),
		from:         from,
		supportEmail: supportEmail,
		frontendURL:  frontendURL,
	}
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Log.WithError(err).WithField("to", to).Warn("не удалось отправить письмо")
		return err
	}
	return nil
}

// SendVerification — письмо со ссылкой подтверждения почты.
func (m *Mailer) SendVerification(to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(`<p>Добро пожаловать в LevKonnect!</p>
<p>Для подтверждения адреса перейдите по ссылке: <a href="%s">%s</a></p>
<p>Ссылка действительна 24 часа.</p>`, link, link)
	return m.send(to, "Подтверждение регистрации", body)
}

// SendPasswordReset — письмо со ссылкой сброса пароля.
func (m *Mailer) SendPasswordReset(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(`<p>Вы запросили сброс пароля.</p>
<p>Ссылка для смены пароля: <a href="%s">%s</a></p>
<p>Если вы не запрашивали сброс, проигнорируйте это письмо.</p>`, link, link)
	return m.send(to, "Сброс пароля", body)
}

// SendEvent — письмо по событию рабочего процесса.
// kind соответствует EmailKind события outbox.
func (m *Mailer) SendEvent(to, kind, entityName string) error {
	if to == "" {
		return nil
	}

	var subject, body string
	switch kind {
	case "bid_accepted":
		subject = "Ваша ставка принята"
		body = fmt.Sprintf(`<p>Поздравляем! Ваша ставка по работе «%s» принята.</p>
<p>Проект уже создан, детали в личном кабинете: %s/projects</p>`, entityName, m.frontendURL)
	case "project_completed":
		subject = "Проект завершен"
		body = fmt.Sprintf(`<p>Проект «%s» отмечен завершенным.</p>`, entityName)
	case "project_cancelled":
		subject = "Проект отменен"
		body = fmt.Sprintf(`<p>Проект «%s» был отменен заказчиком.</p>`, entityName)
	case "milestone_approved":
		subject = "Этап принят"
		body = fmt.Sprintf(`<p>Этап «%s» принят, выплата проведена.</p>`, entityName)
	case "milestone_rejected":
		subject = "Этап возвращен на доработку"
		body = fmt.Sprintf(`<p>Этап «%s» возвращен на доработку.</p>`, entityName)
	case "milestone_submitted":
		subject = "Этап сдан на проверку"
		body = fmt.Sprintf(`<p>Этап «%s» сдан на проверку.</p>`, entityName)
	default:
		return nil
	}
	return m.send(to, subject, body)
}

// SendContactForm — пересылка обращения в поддержку и подтверждение автору.
func (m *Mailer) SendContactForm(name, email, subject, message, userType string) {
	supportBody := fmt.Sprintf(`<p>Новое обращение (%s)</p>
<p><b>%s</b> &lt;%s&gt;</p>
<p>Тема: %s</p>
<p>%s</p>`, userType, name, email, subject, message)
	_ = m.send(m.supportEmail, "Обращение с сайта: "+subject, supportBody)

	thanksBody := fmt.Sprintf(`<p>Здравствуйте, %s!</p>
<p>Мы получили ваше обращение и ответим в ближайшее время.</p>`, name)
	_ = m.send(email, "Мы получили ваше обращение", thanksBody)
}
