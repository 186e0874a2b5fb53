package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"challengeme_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrForbidden is returned when a user attempts a mutation they do not own.
var ErrForbidden = errors.New("operation not permitted")

// ErrOwnerCannotAccept is returned when a challenge owner tries to accept
// their own challenge.
var ErrOwnerCannotAccept = errors.New("owner cannot accept their own challenge")

// acceptRetries bounds the optimistic retry loop on acceptedBy writes.
const acceptRetries = 3

type ChallengeService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
	Live     *LiveQueryService
}

// CreateChallenge validates and stores a new challenge plus its realtime
// group sidecar.
func (s *ChallengeService) CreateChallenge(ctx context.Context, ownerID, gameName string, prize float64) (*models.Challenge, error) {
	if !models.IsValidGameName(gameName) {
		return nil, fmt.Errorf("unknown game name: %q", gameName)
	}
	if prize <= 0 {
		return nil, fmt.Errorf("prize must be greater than zero")
	}

	now := time.Now().Format(time.RFC3339)
	challenge := models.Challenge{
		ChallengeID: uuid.New().String(),
		GameName:    gameName,
		Prize:       prize,
		UserID:      ownerID,
		CreatedAt:   now,
		Version:     0,
	}

	if err := s.Dynamo.PutItem(ctx, models.ChallengesTable, challenge); err != nil {
		return nil, err
	}

	group := models.ChallengeGroup{
		ChallengeID: challenge.ChallengeID,
		GameName:    gameName,
		CreatedBy:   ownerID,
		CreatedAt:   now,
	}
	if err := s.Dynamo.PutItem(ctx, models.ChallengeGroupsTable, group); err != nil {
		log.Printf("❌ Failed to create group for challenge %s: %v", challenge.ChallengeID, err)
		return nil, err
	}

	log.Printf("✅ Group created for challenge: %s", challenge.ChallengeID)
	s.Live.Publish(models.ChallengesTable)
	return &challenge, nil
}

// GetChallenge fetches a single challenge by id.
func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID string) (*models.Challenge, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ChallengesTable, challengeKey(challengeID))
	if err != nil {
		return nil, err
	}

	var challenge models.Challenge
	if err := attributevalue.UnmarshalMap(item, &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	return &challenge, nil
}

// GetChallenges returns the dashboard feed: every challenge, newest first,
// with owner display names merged in.
func (s *ChallengeService) GetChallenges(ctx context.Context) ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := s.Dynamo.ScanTable(ctx, models.ChallengesTable, &challenges); err != nil {
		return nil, err
	}

	// The store returns scan order; sort newest first ourselves.
	sort.SliceStable(challenges, func(i, j int) bool {
		return challenges[i].CreatedAt > challenges[j].CreatedAt
	})

	names := make(map[string]string)
	for i, c := range challenges {
		name, ok := names[c.UserID]
		if !ok {
			name = s.Profiles.ResolveDisplayName(ctx, c.UserID)
			names[c.UserID] = name
		}
		challenges[i].UserName = name
	}

	return challenges, nil
}

// UpdateChallenge edits gameName and prize. Owner only; the sidecar group's
// gameName copy is kept in sync.
func (s *ChallengeService) UpdateChallenge(ctx context.Context, challengeID, requesterID, gameName string, prize float64) (*models.Challenge, error) {
	if !models.IsValidGameName(gameName) {
		return nil, fmt.Errorf("unknown game name: %q", gameName)
	}
	if prize <= 0 {
		return nil, fmt.Errorf("prize must be greater than zero")
	}

	challenge, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.UserID != requesterID {
		return nil, ErrForbidden
	}

	updateExpression := "SET gameName = :gameName, prize = :prize"
	expressionValues := map[string]types.AttributeValue{
		":gameName": &types.AttributeValueMemberS{Value: gameName},
		":prize":    &types.AttributeValueMemberN{Value: strconv.FormatFloat(prize, 'f', -1, 64)},
	}

	updated, err := s.Dynamo.UpdateItem(ctx, models.ChallengesTable, updateExpression, challengeKey(challengeID), expressionValues, nil)
	if err != nil {
		return nil, err
	}

	// Mirror the new game name into the group sidecar.
	groupExpression := "SET gameName = :gameName"
	groupValues := map[string]types.AttributeValue{
		":gameName": &types.AttributeValueMemberS{Value: gameName},
	}
	if _, err := s.Dynamo.UpdateItem(ctx, models.ChallengeGroupsTable, groupExpression, challengeKey(challengeID), groupValues, nil); err != nil {
		log.Printf("⚠️ Failed to sync group gameName for %s: %v", challengeID, err)
	}

	var result models.Challenge
	if err := attributevalue.UnmarshalMap(updated, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated challenge: %w", err)
	}

	s.Live.Publish(models.ChallengesTable)
	return &result, nil
}

// DeleteChallenge removes a challenge, its group sidecar and every chat
// message in the group. Owner only.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, challengeID, requesterID string) error {
	challenge, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge.UserID != requesterID {
		return ErrForbidden
	}

	if err := s.Dynamo.DeleteItem(ctx, models.ChallengesTable, challengeKey(challengeID)); err != nil {
		return err
	}
	if err := s.Dynamo.DeleteItem(ctx, models.ChallengeGroupsTable, challengeKey(challengeID)); err != nil {
		log.Printf("⚠️ Failed to delete group for challenge %s: %v", challengeID, err)
	}
	if err := s.deleteGroupMessages(ctx, challengeID); err != nil {
		log.Printf("⚠️ Failed to delete messages for challenge %s: %v", challengeID, err)
	}

	log.Printf("✅ Challenge %s deleted by %s", challengeID, requesterID)
	s.Live.Publish(models.ChallengesTable)
	return nil
}

func (s *ChallengeService) deleteGroupMessages(ctx context.Context, challengeID string) error {
	keyCondition := "challengeId = :challengeId"
	expressionValues := map[string]types.AttributeValue{
		":challengeId": &types.AttributeValueMemberS{Value: challengeID},
	}

	items, err := s.Dynamo.QueryAllItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	writeRequests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		messageID, ok := item["messageId"]
		if !ok {
			continue
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"challengeId": &types.AttributeValueMemberS{Value: challengeID},
					"messageId":   messageID,
				},
			},
		})
	}

	return s.Dynamo.BatchWriteItems(ctx, models.MessagesTable, writeRequests)
}

// AcceptChallenge appends {viewer, display name resolved now} to acceptedBy.
// Idempotent: a second accept by the same viewer is a no-op. The name is a
// point-in-time snapshot, not refreshed on later profile edits. The write is
// version guarded so two racing accepts both land.
func (s *ChallengeService) AcceptChallenge(ctx context.Context, challengeID, viewerID string) error {
	var lastErr error
	for attempt := 0; attempt < acceptRetries; attempt++ {
		challenge, err := s.GetChallenge(ctx, challengeID)
		if err != nil {
			return err
		}
		if challenge.UserID == viewerID {
			return ErrOwnerCannotAccept
		}
		if challenge.HasAccepted(viewerID) {
			return nil
		}

		entry := models.AcceptedEntry{
			UserID: viewerID,
			Name:   s.Profiles.ResolveDisplayName(ctx, viewerID),
		}
		updated := models.AppendAcceptance(challenge.AcceptedBy, entry)

		if err := s.writeAcceptedBy(ctx, challengeID, challenge.Version, updated); err != nil {
			if errors.Is(err, ErrConditionFailed) {
				lastErr = err
				continue
			}
			return err
		}

		log.Printf("✅ %s accepted challenge %s", viewerID, challengeID)
		s.Live.Publish(models.ChallengesTable)
		return nil
	}
	return fmt.Errorf("accept challenge %s: gave up after %d attempts: %w", challengeID, acceptRetries, lastErr)
}

// CancelAcceptance filters the viewer out of acceptedBy. A no-op when the
// viewer is not present.
func (s *ChallengeService) CancelAcceptance(ctx context.Context, challengeID, viewerID string) error {
	var lastErr error
	for attempt := 0; attempt < acceptRetries; attempt++ {
		challenge, err := s.GetChallenge(ctx, challengeID)
		if err != nil {
			return err
		}
		if !challenge.HasAccepted(viewerID) {
			return nil
		}

		updated := models.RemoveAcceptance(challenge.AcceptedBy, viewerID)

		if err := s.writeAcceptedBy(ctx, challengeID, challenge.Version, updated); err != nil {
			if errors.Is(err, ErrConditionFailed) {
				lastErr = err
				continue
			}
			return err
		}

		log.Printf("✅ %s withdrew from challenge %s", viewerID, challengeID)
		s.Live.Publish(models.ChallengesTable)
		return nil
	}
	return fmt.Errorf("cancel acceptance on %s: gave up after %d attempts: %w", challengeID, acceptRetries, lastErr)
}

func (s *ChallengeService) writeAcceptedBy(ctx context.Context, challengeID string, version int64, entries []models.AcceptedEntry) error {
	list, err := attributevalue.MarshalList(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal acceptedBy: %w", err)
	}

	updateExpression := "SET acceptedBy = :acceptedBy, version = :newVersion"
	conditionExpression := "version = :version"
	expressionValues := map[string]types.AttributeValue{
		":acceptedBy": &types.AttributeValueMemberL{Value: list},
		":version":    &types.AttributeValueMemberN{Value: strconv.FormatInt(version, 10)},
		":newVersion": &types.AttributeValueMemberN{Value: strconv.FormatInt(version+1, 10)},
	}

	_, err = s.Dynamo.UpdateItemWithCondition(ctx, models.ChallengesTable, updateExpression, conditionExpression, challengeKey(challengeID), expressionValues, nil)
	return err
}

// ToggleLike adds the viewer to the likes set if absent, removes them if
// present. Set-level ADD/DELETE keeps concurrent toggles by different users
// merge safe.
func (s *ChallengeService) ToggleLike(ctx context.Context, challengeID, viewerID string) error {
	challenge, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}

	updateExpression := "ADD likes :viewer"
	if challenge.HasLiked(viewerID) {
		updateExpression = "DELETE likes :viewer"
	}
	expressionValues := map[string]types.AttributeValue{
		":viewer": &types.AttributeValueMemberSS{Value: []string{viewerID}},
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.ChallengesTable, updateExpression, challengeKey(challengeID), expressionValues, nil); err != nil {
		return err
	}

	s.Live.Publish(models.ChallengesTable)
	return nil
}

func challengeKey(challengeID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"challengeId": &types.AttributeValueMemberS{Value: challengeID},
	}
}
