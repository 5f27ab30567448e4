package handler

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/locale"
)

const spaEntryDocument = "index.html"

// ServeSPA 处理所有未匹配的路由：存在的静态文件直接返回，
// 否则回退到入口页；入口页缺失时返回 404 并注明请求路径
func (a *API) ServeSPA(c *gin.Context) {
	requestPath := c.Request.URL.Path

	if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
		respondError(c, http.StatusNotFound, fmt.Sprintf("%s: %s", locale.Pick(requestLanguage(c), "Not found", "未找到"), requestPath))
		return
	}

	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.String(http.StatusNotFound, "Not found: %s", requestPath)
		return
	}

	if file, ok := a.staticFile(requestPath); ok {
		c.File(file)
		return
	}

	if entry, ok := a.staticFile("/" + spaEntryDocument); ok {
		c.File(entry)
		return
	}

	c.String(http.StatusNotFound, "Not found: %s", requestPath)
}

// staticFile 将请求路径映射到静态目录内的普通文件，拒绝越界路径
func (a *API) staticFile(requestPath string) (string, bool) {
	if strings.TrimSpace(a.staticDir) == "" {
		return "", false
	}

	cleaned := path.Clean("/" + requestPath)
	if cleaned == "/" {
		cleaned = "/" + spaEntryDocument
	}

	full := filepath.Join(a.staticDir, filepath.FromSlash(cleaned))
	root, err := filepath.Abs(a.staticDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(full)
	if err != nil || (abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator))) {
		return "", false
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", false
	}
	return abs, true
}
