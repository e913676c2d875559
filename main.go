package main

import (
	"github.com/DhavalSuthar-24/crease/cmd"
	_ "github.com/DhavalSuthar-24/crease/docs"
)

// @title Crease live scoring API
// @version 1.0
// @description Ball-by-ball cricket scoring with lossless undo.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
