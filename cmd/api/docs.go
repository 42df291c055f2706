package main

// @title           PDV Sync API
// @version         1.0
// @description     Razão de estoque e fiado com sincronização offline dos PDVs

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
