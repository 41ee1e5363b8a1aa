// Package types holds the request models shared across the application.
// Keeping them in one place prevents import cycles — the dispatcher, the
// scoring functions, and the HTTP handlers can all import types without
// depending on each other.
//
// Every model is built by an explicit constructor that takes the raw
// decoded JSON mapping, runs each value through its field constraint, and
// either returns a fully validated struct or the first violation as an
// error. A partially constructed request is never observable.
package types

import (
	"fmt"

	"github.com/aanand-mishra/scoring-api/internal/field"
)

// rawField binds one key of the input mapping to a field setter.
// A required field whose key is missing fails the same way as an explicit
// null; an optional missing key is simply skipped.
type rawField struct {
	name     string
	required bool
	set      func(any) error
}

func applyFields(raw map[string]any, fields []rawField) error {
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok {
			if f.required {
				return fmt.Errorf("field %s is required", f.name)
			}
			continue
		}
		if err := f.set(v); err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}
	return nil
}

// MethodRequest is the envelope carried by every call: credentials, the
// method name, and an opaque argument bag validated later by the
// method-specific model. Immutable after construction.
type MethodRequest struct {
	Account   field.String
	Login     field.String
	Token     field.String
	Arguments field.Arguments
	Method    field.String
}

// NewMethodRequest validates the raw request body into an envelope.
func NewMethodRequest(body map[string]any) (*MethodRequest, error) {
	r := &MethodRequest{
		Account:   field.String{Spec: field.Spec{Nullable: true}},
		Login:     field.String{Spec: field.Spec{Required: true, Nullable: true}},
		Token:     field.String{Spec: field.Spec{Required: true, Nullable: true}},
		Arguments: field.Arguments{Spec: field.Spec{Required: true, Nullable: true}},
		Method:    field.String{Spec: field.Spec{Required: true, Nullable: false}},
	}
	err := applyFields(body, []rawField{
		{"account", false, r.Account.Set},
		{"login", true, r.Login.Set},
		{"token", true, r.Token.Set},
		{"arguments", true, r.Arguments.Set},
		{"method", true, r.Method.Set},
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// IsAdmin reports whether the envelope was issued for the admin identity.
func (r *MethodRequest) IsAdmin(adminLogin string) bool {
	return r.Login.Value == adminLogin
}

// OnlineScoreRequest carries the attributes the score is computed from.
// All fields are individually optional, but at least one of the pairs
// phone+email, first_name+last_name or gender+birthday must be populated —
// with fewer attributes than that the score would be meaningless.
type OnlineScoreRequest struct {
	FirstName field.String
	LastName  field.String
	Email     field.Email
	Phone     field.Phone
	Birthday  field.Birthday
	Gender    field.Gender
}

// NewOnlineScoreRequest validates the argument bag of an online_score call.
func NewOnlineScoreRequest(args map[string]any) (*OnlineScoreRequest, error) {
	optional := field.Spec{Nullable: true}
	r := &OnlineScoreRequest{
		FirstName: field.String{Spec: optional},
		LastName:  field.String{Spec: optional},
		Email:     field.Email{String: field.String{Spec: optional}},
		Phone:     field.Phone{Spec: optional},
		Birthday:  field.Birthday{Date: field.Date{Spec: optional}},
		Gender:    field.Gender{Spec: optional},
	}
	err := applyFields(args, []rawField{
		{"first_name", false, r.FirstName.Set},
		{"last_name", false, r.LastName.Set},
		{"email", false, r.Email.Set},
		{"phone", false, r.Phone.Set},
		{"birthday", false, r.Birthday.Set},
		{"gender", false, r.Gender.Set},
	})
	if err != nil {
		return nil, err
	}
	if !(r.Phone.Value != "" && r.Email.Value != "") &&
		!(r.FirstName.Value != "" && r.LastName.Value != "") &&
		!(r.Gender.Present() && r.Birthday.Present()) {
		return nil, fmt.Errorf(
			"at least one pair must be supplied: phone+email, first_name+last_name or gender+birthday")
	}
	return r, nil
}

// ClientsInterestsRequest carries the client ids of an interests lookup.
// The date is informational only and does not affect the lookup.
type ClientsInterestsRequest struct {
	ClientIDs field.ClientIDs
	Date      field.Date
}

// NewClientsInterestsRequest validates the argument bag of a
// clients_interests call.
func NewClientsInterestsRequest(args map[string]any) (*ClientsInterestsRequest, error) {
	r := &ClientsInterestsRequest{
		ClientIDs: field.ClientIDs{Spec: field.Spec{Required: true}},
		Date:      field.Date{Spec: field.Spec{Nullable: true}},
	}
	err := applyFields(args, []rawField{
		{"client_ids", true, r.ClientIDs.Set},
		{"date", false, r.Date.Set},
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
