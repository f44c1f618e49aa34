package response

import "github.com/contestify/contest-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type Message struct {
	Message string `json:"message"`
}

// ContestPage and UserPage name the generic page for the API docs.
type ContestPage = domain.Page[domain.Contest]

type UserPage = domain.Page[domain.User]
