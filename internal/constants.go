package internal

const COOKIE_ACCESS_TOKEN_NAME = "togetherwe_access_token"
