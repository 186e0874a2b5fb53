package models

// AcceptedEntry records one user who accepted a challenge. The name is a
// snapshot taken at accept time and is not refreshed on later profile edits.
type AcceptedEntry struct {
	UserID string `dynamodbav:"userId" json:"userId"`
	Name   string `dynamodbav:"name" json:"name"`
}

// Challenge defines the structure for posted challenges
type Challenge struct {
	ChallengeID string          `dynamodbav:"challengeId" json:"challengeId"`
	GameName    string          `dynamodbav:"gameName" json:"gameName"`
	Prize       float64         `dynamodbav:"prize" json:"prize"`
	UserID      string          `dynamodbav:"userId" json:"userId"`
	UserName    string          `dynamodbav:"-" json:"userName,omitempty"` // merged in from UserProfiles on read
	CreatedAt   string          `dynamodbav:"createdAt" json:"createdAt"`
	Likes       []string        `dynamodbav:"likes,stringset,omitemptyelem" json:"likes,omitempty"`
	AcceptedBy  []AcceptedEntry `dynamodbav:"acceptedBy" json:"acceptedBy,omitempty"`
	Version     int64           `dynamodbav:"version" json:"-"`
}

// ChallengesTable is the DynamoDB table name for challenges
const ChallengesTable = "Challenges"

// Games is the fixed set of games a challenge can be posted for.
var Games = []string{
	"PUBG Mobile",
	"Free Fire",
	"Call of Duty: Mobile",
	"Battlegrounds Mobile India (BGMI)",
	"Clash of Clans",
	"Clash Royale",
	"Ludo King",
	"Garena Free Fire",
	"Asphalt 9: Legends",
	"Candy Crush Saga",
	"Among Us",
	"Subway Surfers",
	"Minecraft",
	"Fortnite",
	"Apex Legends",
	"Valorant",
	"FIFA Online 4",
	"League of Legends",
	"Counter-Strike: Global Offensive (CS: GO)",
	"Rocket League",
}

// IsValidGameName reports whether name is in the fixed game list.
func IsValidGameName(name string) bool {
	for _, g := range Games {
		if g == name {
			return true
		}
	}
	return false
}

// HasAccepted reports whether userID appears in the acceptedBy list.
func (c *Challenge) HasAccepted(userID string) bool {
	for _, entry := range c.AcceptedBy {
		if entry.UserID == userID {
			return true
		}
	}
	return false
}

// HasLiked reports whether userID is in the likes set.
func (c *Challenge) HasLiked(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// AppendAcceptance returns entries with entry added, or entries unchanged if
// the user is already present. Each userId appears at most once.
func AppendAcceptance(entries []AcceptedEntry, entry AcceptedEntry) []AcceptedEntry {
	for _, e := range entries {
		if e.UserID == entry.UserID {
			return entries
		}
	}
	out := make([]AcceptedEntry, 0, len(entries)+1)
	out = append(out, entries...)
	return append(out, entry)
}

// RemoveAcceptance returns entries with the user filtered out. A no-op when
// the user is absent.
func RemoveAcceptance(entries []AcceptedEntry, userID string) []AcceptedEntry {
	out := make([]AcceptedEntry, 0, len(entries))
	for _, e := range entries {
		if e.UserID != userID {
			out = append(out, e)
		}
	}
	return out
}

// ToggleLike returns likes with userID removed if present, appended otherwise.
// Applying it twice yields the original set.
func ToggleLike(likes []string, userID string) []string {
	out := make([]string, 0, len(likes)+1)
	found := false
	for _, id := range likes {
		if id == userID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, userID)
	}
	return out
}
