package cmd

// import modules so their init() functions are called

import (
	_ "github.com/adwikataware/Hackcrypt/pkg/modules/detect"
	_ "github.com/adwikataware/Hackcrypt/pkg/modules/history"
	_ "github.com/adwikataware/Hackcrypt/pkg/modules/protect"
)
