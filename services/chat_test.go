package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Congmoow/Campus-Market/models"
)

func TestStartChatCreatesOneSessionPerTriple(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")
	product := e.createProduct(t, seller.ID, "monitor", 90)

	session, err := e.chats.StartChat(ctx, buyer.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, seller.ID, session.PartnerID)
	require.NotNil(t, session.ProductID)
	assert.Equal(t, product.ID, *session.ProductID)
	assert.Equal(t, "monitor", session.ProductTitle)

	again, err := e.chats.StartChat(ctx, buyer.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, again.ID)

	_, err = e.chats.StartChat(ctx, seller.ID, product.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.chats.StartChat(ctx, buyer.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessageValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")
	stranger := e.createUser(t, "stranger")
	product := e.createProduct(t, seller.ID, "keyboard", 15)

	session, err := e.chats.StartChat(ctx, buyer.ID, product.ID)
	require.NoError(t, err)

	_, err = e.chats.SendMessage(ctx, session.ID, buyer.ID, "   ", models.MessageText)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.chats.SendMessage(ctx, session.ID, buyer.ID, "hi", "VOICE")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.chats.SendMessage(ctx, session.ID, stranger.ID, "hi", models.MessageText)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.chats.SendMessage(ctx, 9999, buyer.ID, "hi", models.MessageText)
	assert.ErrorIs(t, err, ErrNotFound)

	// Blank type defaults to TEXT.
	message, err := e.chats.SendMessage(ctx, session.ID, buyer.ID, "is this still available?", "")
	require.NoError(t, err)
	assert.Equal(t, models.MessageText, message.Type)
	assert.False(t, message.Read)
}

func TestUnreadCountAndReadOnView(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")
	product := e.createProduct(t, seller.ID, "speaker", 35)

	session, err := e.chats.StartChat(ctx, buyer.ID, product.ID)
	require.NoError(t, err)
	_, err = e.chats.SendMessage(ctx, session.ID, buyer.ID, "hello", models.MessageText)
	require.NoError(t, err)
	_, err = e.chats.SendMessage(ctx, session.ID, buyer.ID, "still there?", models.MessageText)
	require.NoError(t, err)

	// Two unread for the seller, none for the buyer's own messages.
	sellerSessions, err := e.chats.ListSessions(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, sellerSessions, 1)
	assert.Equal(t, int64(2), sellerSessions[0].UnreadCount)
	assert.Equal(t, "still there?", sellerSessions[0].LastMessage)

	buyerSessions, err := e.chats.ListSessions(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, buyerSessions, 1)
	assert.Equal(t, int64(0), buyerSessions[0].UnreadCount)

	// Opening the conversation flips the partner's messages to read.
	messages, err := e.chats.ListMessages(ctx, session.ID, seller.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	sellerSessions, err = e.chats.ListSessions(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sellerSessions[0].UnreadCount)
}

func TestMarkAllAsRead(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")
	first := e.createProduct(t, seller.ID, "first", 10)
	second := e.createProduct(t, seller.ID, "second", 20)

	sessionA, err := e.chats.StartChat(ctx, buyer.ID, first.ID)
	require.NoError(t, err)
	sessionB, err := e.chats.StartChat(ctx, buyer.ID, second.ID)
	require.NoError(t, err)
	_, err = e.chats.SendMessage(ctx, sessionA.ID, buyer.ID, "a", models.MessageText)
	require.NoError(t, err)
	_, err = e.chats.SendMessage(ctx, sessionB.ID, buyer.ID, "b", models.MessageText)
	require.NoError(t, err)

	require.NoError(t, e.chats.MarkAllAsRead(ctx, seller.ID))

	sessions, err := e.chats.ListSessions(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, session := range sessions {
		assert.Equal(t, int64(0), session.UnreadCount)
	}
}

func TestSessionsOrderedByLastActivity(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	seller := e.createUser(t, "seller")
	buyer := e.createUser(t, "buyer")
	first := e.createProduct(t, seller.ID, "first", 10)
	second := e.createProduct(t, seller.ID, "second", 20)

	sessionA, err := e.chats.StartChat(ctx, buyer.ID, first.ID)
	require.NoError(t, err)
	sessionB, err := e.chats.StartChat(ctx, buyer.ID, second.ID)
	require.NoError(t, err)

	// A message in the older session bumps it to the top.
	_, err = e.chats.SendMessage(ctx, sessionA.ID, buyer.ID, "bump", models.MessageText)
	require.NoError(t, err)

	sessions, err := e.chats.ListSessions(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, sessionA.ID, sessions[0].ID)
	assert.Equal(t, sessionB.ID, sessions[1].ID)
}

func TestSystemNotifications(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	target := e.createUser(t, "target")

	_, err := e.chats.SendSystemMessageToUser(ctx, 9999, "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.chats.SendSystemMessageToUser(ctx, target.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	message, err := e.chats.SendSystemMessageToUser(ctx, target.ID, "your listing was featured")
	require.NoError(t, err)
	assert.Equal(t, models.SystemSenderID, message.SenderID)

	// A second notification lands in the same system channel.
	_, err = e.chats.SendSystemMessageToUser(ctx, target.ID, "welcome aboard")
	require.NoError(t, err)

	sessions, err := e.chats.ListSessions(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Nil(t, sessions[0].ProductID)
	assert.Equal(t, models.SystemSenderID, sessions[0].PartnerID)
	assert.Equal(t, "System Notice", sessions[0].PartnerName)
	assert.Equal(t, int64(2), sessions[0].UnreadCount)
	assert.Equal(t, "welcome aboard", sessions[0].LastMessage)
}
