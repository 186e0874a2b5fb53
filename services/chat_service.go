package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"challengeme_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService stores per-challenge group messages. Messages are append only.
type ChatService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService

	// Notify broadcasts a stored message to the challenge's socket room.
	// Set after the socket server is constructed; may be nil in tests.
	Notify func(challengeID string, message models.ChatMessage)
}

// SendMessage appends a message to the challenge group and broadcasts it.
func (s *ChatService) SendMessage(ctx context.Context, challengeID, userID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	message := models.ChatMessage{
		ChallengeID: challengeID,
		MessageID:   uuid.New().String(),
		UserID:      userID,
		Text:        text,
		CreatedAt:   time.Now().Format(time.RFC3339Nano),
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	message.UserName = s.Profiles.ResolveDisplayName(ctx, userID)

	if s.Notify != nil {
		s.Notify(challengeID, message)
	}

	log.Printf("📩 Message stored for challenge %s", challengeID)
	return &message, nil
}

// maxMessageFetch bounds how many messages one fetch returns.
const maxMessageFetch = 500

// GetMessages fetches a challenge group's messages ascending by createdAt,
// with sender display names merged in. A limit keeps the newest entries: the
// sort key is a random message id, so a store-side Limit would pick an
// arbitrary subset of the conversation instead of a time window. The whole
// partition is read and trimmed after sorting.
func (s *ChatService) GetMessages(ctx context.Context, challengeID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > maxMessageFetch {
		limit = maxMessageFetch
	}

	keyCondition := "challengeId = :challengeId"
	expressionValues := map[string]types.AttributeValue{
		":challengeId": &types.AttributeValueMemberS{Value: challengeID},
	}

	items, err := s.Dynamo.QueryAllItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.ChatMessage
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})
	messages = latestWindow(messages, limit)

	names := make(map[string]string)
	for i, msg := range messages {
		name, ok := names[msg.UserID]
		if !ok {
			name = s.Profiles.ResolveDisplayName(ctx, msg.UserID)
			names[msg.UserID] = name
		}
		messages[i].UserName = name
	}

	return messages, nil
}

// latestWindow trims messages, already sorted ascending by createdAt, to the
// newest limit entries. Order is preserved.
func latestWindow(messages []models.ChatMessage, limit int) []models.ChatMessage {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}
