package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// Field names follow the intake forms the frontend posts, capitals included.

type WagerRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Firstname     string             `bson:"firstname" json:"firstname"`
	Lastname      string             `bson:"lastname" json:"lastname"`
	Email         string             `bson:"email" json:"email"`
	Address       string             `bson:"address" json:"address"`
	District      string             `bson:"District" json:"District"`
	State         string             `bson:"state" json:"state"`
	Pincode       string             `bson:"pincode" json:"pincode"`
	NumberofWager string             `bson:"NumberofWager" json:"NumberofWager"`
	Work          string             `bson:"work" json:"work"`
	ContactNo     string             `bson:"contactNo" json:"contactNo"`
}

type AgriRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Firstname string             `bson:"firstname" json:"firstname"`
	Lastname  string             `bson:"lastname" json:"lastname"`
	Email     string             `bson:"email" json:"email"`
	ContactNo string             `bson:"contactNo" json:"contactNo"`
	Address   string             `bson:"address" json:"address"`
	District  string             `bson:"District" json:"District"`
	State     string             `bson:"state" json:"state"`
	Pincode   string             `bson:"pincode" json:"pincode"`
	Machine   string             `bson:"machine" json:"machine"`
}
