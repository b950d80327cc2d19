package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-postal/internal/config"
	"github.com/zostay/go-postal/mailer"
	"github.com/zostay/go-postal/mailer/pickup"
	"github.com/zostay/go-postal/mailer/ses"
	"github.com/zostay/go-postal/mailer/smtp"
)

var sendCmd = &cobra.Command{
	Use:   "send <view>",
	Short: "render a view and send the message with the configured provider",
	Args:  cobra.ExactArgs(1),
	RunE:  Send,
}

func init() {
	addEmailFlags(sendCmd)
}

// newSender returns the Sender for the configured provider.
func newSender(ctx context.Context, cfg *config.Config) (mailer.Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderSMTP:
		sec, err := smtp.ParseSecurity(cfg.SMTP.Security)
		if err != nil {
			return nil, err
		}
		return smtp.New(smtp.Config{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Security:  sec,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			LocalName: cfg.SMTP.LocalName,
		}, logger), nil

	case config.ProviderSES:
		return ses.New(ctx, ses.Config{
			Region:           cfg.SES.Region,
			AccessKeyID:      cfg.SES.AccessKeyID,
			SecretAccessKey:  cfg.SES.SecretAccessKey,
			ConfigurationSet: cfg.SES.ConfigurationSet,
		}, ses.WithLogger(logger))

	default:
		return pickup.New(cfg.Pickup.Dir, logger), nil
	}
}

// Send renders a view and delivers the message.
func Send(c *cobra.Command, args []string) error {
	sender, err := newSender(c.Context(), cfg)
	if err != nil {
		return err
	}

	email, err := newEmail(args[0])
	if err != nil {
		return err
	}

	msg, err := newService(sender).Send(c.Context(), email)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.OutOrStdout(), "sent %q to %d recipient(s) with %s\n",
		msg.Subject, len(msg.Recipients()), sender.Name())
	return err
}
