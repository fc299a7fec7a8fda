package domain

import "time"

// OTPRecord is the single live one-time code for an email address.
// PK: email. ExpiresAt doubles as the store's TTL attribute (epoch seconds in
// DynamoDB, a BSON date under a TTL index in MongoDB).
type OTPRecord struct {
	Email     string    `json:"email" dynamodbav:"email" bson:"email"`
	OTP       string    `json:"otp" dynamodbav:"otp" bson:"otp"`
	ExpiresAt time.Time `json:"expiresAt" dynamodbav:"expiresAt,unixtime" bson:"expiresAt"`
}

// Valid reports whether code matches and now has not passed ExpiresAt.
func (r *OTPRecord) Valid(code string, now time.Time) bool {
	return r.OTP == code && !now.After(r.ExpiresAt)
}
