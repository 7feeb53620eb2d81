package utils

import (
	"os"

	"github.com/mailjet/mailjet-apiv3-go"
)

func SendMail(to string, subject string, html string) (bool, error) {
	mailjetClient := mailjet.NewMailjetClient(
		os.Getenv("MJ_APIKEY_PUBLIC"), os.Getenv("MJ_APIKEY_PRIVATE"))

	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: os.Getenv("MJ_FROM_EMAIL"),
				Name:  "Stay & Go",
			},
			To: &mailjet.RecipientsV31{
				mailjet.RecipientV31{
					Email: to,
				},
			},
			Subject:  subject,
			HTMLPart: html,
		},
	}

	messages := mailjet.MessagesV31{Info: messagesInfo}
	_, err := mailjetClient.SendMailV31(&messages)
	if err != nil {
		return false, err
	}

	return true, nil
}
