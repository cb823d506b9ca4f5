package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is returned unredacted by the profile endpoint, hashes included.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Firstname       string             `bson:"firstname" json:"firstname"`
	Lastname        string             `bson:"lastname" json:"lastname"`
	Email           string             `bson:"email" json:"email"`
	Number          string             `bson:"number" json:"number"`
	Password        string             `bson:"password" json:"password"`
	ConfirmPassword string             `bson:"confirmPassword" json:"confirmPassword"`
}
