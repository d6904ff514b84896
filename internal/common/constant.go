package common

// AuthorizationHeader carries the bearer token on every protected route.
const AuthorizationHeader = "Authorization"

// BearerScheme is the only accepted Authorization scheme.
const BearerScheme = "Bearer"
