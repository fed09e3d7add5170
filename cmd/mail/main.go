package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/logger"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/mailer"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/mailqueue"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		l := logger.New(logger.Options{})
		l.Error().Err(err).Msg("无法读取配置文件")
		os.Exit(1)
	}

	/**********************************************
	 * 创建 logger
	 **********************************************/
	l := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}).
		With().Str("service", "mail").Logger()

	from := cfg.Email.From
	if from == "" {
		from = cfg.Email.SMTP.Username
	}

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		l.Error().Err(err).Msg("无法创建邮件客户端")
		os.Exit(1)
	}
	defer client.Close()

	// 验证邮件客户端是否连接成功
	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		l.Error().Err(err).Msg("无法连接到邮件服务器")
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		l.Error().Err(err).Msg("无法连接到 RabbitMQ")
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		l.Error().Err(err).Msg("无法创建通道")
		return
	}
	defer ch.Close()

	q, err := mailqueue.DeclareQueue(ch, cfg.RabbitMQ.Queue)
	if err != nil {
		l.Error().Err(err).Msg("无法声明队列")
		return
	}

	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，由 RabbitMQ 自动分配
		false,  // 手动确认
		false,  // 是否独占队列
		false,  // RabbitMQ 不支持 noLocal
		false,  // 等待 RabbitMQ 响应
		nil,    // 额外参数
	)
	if err != nil {
		l.Error().Err(err).Msg("无法消费消息")
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, stop := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					l.Warn().Msg("消息通道已关闭")
					return
				}

				m, err := mailer.Compose(msg.Body, from)
				if err != nil {
					// 消息本身有问题，重新入队也无法处理
					l.Error().Err(err).Bytes("body", msg.Body).Msg("无法构建邮件")
					_ = msg.Nack(false, false)
					continue
				}

				to, _ := m.GetRecipients()
				if err := client.DialAndSendWithContext(ctx, m); err != nil {
					l.Error().Err(err).Strs("to", to).Msg("邮件发送失败")
					_ = msg.Nack(false, true) // 将消息重新入队
					continue
				}

				l.Info().Strs("to", to).Msg("邮件已发送")
				_ = msg.Ack(false)
			}
		}
	}()

	l.Info().Str("queue", q.Name).Msg("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	l.Info().Msg("正在关闭 mail worker...")
	stop()
	wg.Wait()
	l.Info().Msg("mail worker 已成功关闭")
}
