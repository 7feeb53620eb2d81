package utils

import (
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// JSONSuccess writes the uniform success envelope.
func JSONSuccess(ctx iris.Context, status int, message string, data interface{}) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"success": true, "message": message, "data": data})
}

// JSONFail writes the uniform failure envelope.
func JSONFail(ctx iris.Context, status int, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"success": false, "message": message})
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"success": true,
		"data":    data,
		"meta":    PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}
