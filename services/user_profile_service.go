package services

import (
	"context"
	"fmt"
	"log"

	"challengeme_server/models"
	"challengeme_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserProfileService struct {
	Dynamo *DynamoService
}

// AddUserProfile adds a new user profile to DynamoDB
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
	if err != nil {
		return nil, err
	}
	profile.AvatarURL = utils.AvatarURL(profile.Username, profile.UserID)
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	err = attributevalue.UnmarshalMap(item, &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	profile.AvatarURL = utils.AvatarURL(profile.Username, profile.UserID)
	return &profile, nil
}

// GetUserProfileByEmail fetches a profile by its email address. Returns
// (nil, nil) when no profile exists for the email.
func (ups *UserProfileService) GetUserProfileByEmail(ctx context.Context, emailID string) (*models.UserProfile, error) {
	var profiles []models.UserProfile
	err := ups.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, map[string]string{"emailId": emailID}, nil, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by email: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	profile := profiles[0]
	profile.AvatarURL = utils.AvatarURL(profile.Username, profile.UserID)
	return &profile, nil
}

// ResolveDisplayName returns the display name for userID at this point in
// time, falling back to "Anonymous" when the profile is missing. Callers that
// denormalize the result (acceptances, posts) keep the snapshot even if the
// profile is edited later.
func (ups *UserProfileService) ResolveDisplayName(ctx context.Context, userID string) string {
	profile, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Could not resolve display name for %s: %v", userID, err)
		return models.AnonymousName
	}
	return profile.DisplayName()
}

// UpdateUserProfile updates name and username for the given user and returns
// the updated profile with a freshly derived avatar.
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID, name, username string) (*models.UserProfile, error) {
	if name == "" || username == "" {
		return nil, fmt.Errorf("name and username are required")
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET #name = :name, #username = :username"
	expressionAttributeValues := map[string]types.AttributeValue{
		":name":     &types.AttributeValueMemberS{Value: name},
		":username": &types.AttributeValueMemberS{Value: username},
	}
	expressionAttributeNames := map[string]string{
		"#name":     "name",
		"#username": "username",
	}

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	err = attributevalue.UnmarshalMap(updatedItem, &updatedProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}

	updatedProfile.AvatarURL = utils.AvatarURL(updatedProfile.Username, updatedProfile.UserID)
	log.Printf("✅ Profile updated for %s", userID)
	return &updatedProfile, nil
}

// DeleteUserProfile removes a user profile from DynamoDB
func (ups *UserProfileService) DeleteUserProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}
