package domain

import "encoding/json"

// Defaults applied to every newly registered user.
const (
	DefaultRank  = "Bronze"
	DefaultLevel = 1
)

// Stored attribute names of the typed user fields.
const (
	FieldEmail            = "email"
	FieldPasswordHash     = "passwordHash"
	FieldFriendCode       = "friendCode"
	FieldFriends          = "friends"
	FieldIncomingRequests = "incomingRequests"
	FieldPendingRequests  = "pendingRequests"
	FieldDeathmatchStats  = "deathmatchStats"
	FieldRank             = "rank"
	FieldLevel            = "level"
	FieldXP               = "xp"
)

var userFields = map[string]bool{
	FieldEmail:            true,
	FieldPasswordHash:     true,
	FieldFriendCode:       true,
	FieldFriends:          true,
	FieldIncomingRequests: true,
	FieldPendingRequests:  true,
	FieldDeathmatchStats:  true,
	FieldRank:             true,
	FieldLevel:            true,
	FieldXP:               true,
}

// IsUserField reports whether name is one of the typed User attributes.
func IsUserField(name string) bool { return userFields[name] }

// User is a registered player. Attribute names match the JSON names so that
// profile patches sent by the client address stored fields directly.
// Attributes the client stored beyond the typed fields live in Extra and are
// returned alongside them.
type User struct {
	Email            string          `json:"email" dynamodbav:"email" bson:"email"`
	PasswordHash     string          `json:"-" dynamodbav:"passwordHash" bson:"passwordHash"`
	FriendCode       string          `json:"friendCode" dynamodbav:"friendCode" bson:"friendCode"`
	Friends          []string        `json:"friends" dynamodbav:"friends" bson:"friends"`
	IncomingRequests []string        `json:"incomingRequests" dynamodbav:"incomingRequests" bson:"incomingRequests"`
	PendingRequests  []string        `json:"pendingRequests" dynamodbav:"pendingRequests" bson:"pendingRequests"`
	DeathmatchStats  DeathmatchStats `json:"deathmatchStats" dynamodbav:"deathmatchStats" bson:"deathmatchStats"`
	Rank             string          `json:"rank" dynamodbav:"rank" bson:"rank"`
	Level            int             `json:"level" dynamodbav:"level" bson:"level"`
	XP               int             `json:"xp" dynamodbav:"xp" bson:"xp"`

	Extra map[string]interface{} `json:"-" dynamodbav:"-" bson:",inline"`
}

// SetExtra keeps the entries of doc that are not typed fields.
func (u *User) SetExtra(doc map[string]interface{}) {
	u.Extra = nil
	for k, v := range doc {
		if IsUserField(k) {
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]interface{})
		}
		u.Extra[k] = v
	}
}

// MarshalJSON writes the typed fields followed by Extra. The password hash is
// never written.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	b, err := json.Marshal(plain(u))
	if err != nil || len(u.Extra) == 0 {
		return b, err
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	for k, v := range u.Extra {
		if IsUserField(k) {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		doc[k] = raw
	}
	return json.Marshal(doc)
}

type DeathmatchStats struct {
	HighestScore  int            `json:"highestScore" dynamodbav:"highestScore" bson:"highestScore"`
	TotalTime     int            `json:"totalTime" dynamodbav:"totalTime" bson:"totalTime"` // seconds
	EnemiesKilled map[string]int `json:"enemiesKilled" dynamodbav:"enemiesKilled" bson:"enemiesKilled"`
}

// NewUser builds a user with the registration defaults.
func NewUser(email, passwordHash, friendCode string) *User {
	return &User{
		Email:            email,
		PasswordHash:     passwordHash,
		FriendCode:       friendCode,
		Friends:          []string{},
		IncomingRequests: []string{},
		PendingRequests:  []string{},
		DeathmatchStats: DeathmatchStats{
			EnemiesKilled: map[string]int{},
		},
		Rank:  DefaultRank,
		Level: DefaultLevel,
	}
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FriendRequest names the acting user by email and the other party by friend code.
type FriendRequest struct {
	Email      string `json:"email" validate:"required"`
	FriendCode string `json:"friendCode" validate:"required"`
}
