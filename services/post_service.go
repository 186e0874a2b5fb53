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

type PostService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
	Live     *LiveQueryService
}

// CreatePost stores a new feed post with the author's display name
// denormalized at post time.
func (s *PostService) CreatePost(ctx context.Context, userID, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("post content is required")
	}
	if len([]rune(content)) > models.MaxPostContentLength {
		return nil, fmt.Errorf("post content exceeds %d characters", models.MaxPostContentLength)
	}

	post := models.Post{
		PostID:    uuid.New().String(),
		Content:   content,
		UserID:    userID,
		UserName:  s.Profiles.ResolveDisplayName(ctx, userID),
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	if err := s.Dynamo.PutItem(ctx, models.PostsTable, post); err != nil {
		return nil, err
	}

	s.Live.Publish(models.PostsTable)
	return &post, nil
}

// GetPosts returns the feed, newest first. Author names are refreshed from
// profiles when the profile still exists, falling back to the name stored at
// post time.
func (s *PostService) GetPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.Dynamo.ScanTable(ctx, models.PostsTable, &posts); err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})

	names := make(map[string]string)
	for i, p := range posts {
		if p.UserID == "" {
			continue
		}
		name, ok := names[p.UserID]
		if !ok {
			profile, err := s.Profiles.GetUserProfile(ctx, p.UserID)
			if err != nil || profile == nil {
				name = p.UserName // keep the stored snapshot
			} else {
				name = profile.DisplayName()
			}
			names[p.UserID] = name
		}
		if name != "" {
			posts[i].UserName = name
		}
	}

	return posts, nil
}

// GetPostsByUser returns one user's posts, newest first.
func (s *PostService) GetPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	if err := s.Dynamo.ScanWithFilter(ctx, models.PostsTable, map[string]string{"userId": userID}, nil, &posts); err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts, nil
}

// ToggleLike adds the viewer to the post's likes set if absent, removes them
// if present.
func (s *PostService) ToggleLike(ctx context.Context, postID, viewerID string) error {
	item, err := s.Dynamo.GetItem(ctx, models.PostsTable, postKey(postID))
	if err != nil {
		return err
	}

	var post models.Post
	if err := attributevalue.UnmarshalMap(item, &post); err != nil {
		return fmt.Errorf("failed to unmarshal post: %w", err)
	}

	updateExpression := "ADD likes :viewer"
	if post.HasLiked(viewerID) {
		updateExpression = "DELETE likes :viewer"
	}
	expressionValues := map[string]types.AttributeValue{
		":viewer": &types.AttributeValueMemberSS{Value: []string{viewerID}},
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.PostsTable, updateExpression, postKey(postID), expressionValues, nil); err != nil {
		return err
	}

	s.Live.Publish(models.PostsTable)
	return nil
}

// DeletePost removes a post. Owner only.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	item, err := s.Dynamo.GetItem(ctx, models.PostsTable, postKey(postID))
	if err != nil {
		return err
	}

	var post models.Post
	if err := attributevalue.UnmarshalMap(item, &post); err != nil {
		return fmt.Errorf("failed to unmarshal post: %w", err)
	}
	if post.UserID != requesterID {
		return ErrForbidden
	}

	if err := s.Dynamo.DeleteItem(ctx, models.PostsTable, postKey(postID)); err != nil {
		return err
	}

	log.Printf("✅ Post %s deleted by %s", postID, requesterID)
	s.Live.Publish(models.PostsTable)
	return nil
}

func postKey(postID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"postId": &types.AttributeValueMemberS{Value: postID},
	}
}
