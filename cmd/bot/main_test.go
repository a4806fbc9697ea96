package main

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUpdateMessage(t *testing.T) {
	update := toUpdate(tgbotapi.Update{
		UpdateID: 10,
		Message: &tgbotapi.Message{
			MessageID: 5,
			From:      &tgbotapi.User{ID: 42, FirstName: "Ana", UserName: "ana"},
			Chat:      &tgbotapi.Chat{ID: 777},
			Text:      "/start",
		},
	})

	require.NotNil(t, update.Message)
	assert.Equal(t, 10, update.UpdateID)
	assert.Equal(t, int64(777), update.Message.Chat.ID)
	assert.Equal(t, "/start", update.Message.Text)
	assert.Equal(t, "ana", update.Message.From.Username)
	assert.Nil(t, update.CallbackQuery)
}

func TestToUpdateCallback(t *testing.T) {
	update := toUpdate(tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			From:    &tgbotapi.User{ID: 42},
			Message: &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: 777}},
			Data:    "service_3",
		},
	})

	require.NotNil(t, update.CallbackQuery)
	require.NotNil(t, update.CallbackQuery.Message)
	assert.Equal(t, "service_3", update.CallbackQuery.Data)
	assert.Equal(t, 9, update.CallbackQuery.Message.MessageID)
	assert.Equal(t, int64(777), update.CallbackQuery.Message.Chat.ID)
	assert.Nil(t, update.Message)
}
