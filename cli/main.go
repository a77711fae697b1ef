package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

type command struct {
	method string
	path   string
	body   func() map[string]any
}

func main() {
	// 1. 定义命令行参数
	server := flag.String("server", "http://localhost:8888", "钱包服务地址")
	cmd := flag.String("cmd", "state", "命令: create|import|state|networks|switch|balance|send|delete|export|receive|status|history")
	secret := flag.String("secret", "", "import 使用的助记词或私钥, 为空时交互输入")
	networkID := flag.String("network", "", "switch 的目标网络 (例如: ethereum, bsc)")
	to := flag.String("to", "", "send 的收款地址")
	amount := flag.String("amount", "", "send 的金额, 原生单位 (例如: 0.01)")
	hash := flag.String("hash", "", "status 查询的交易哈希")
	flag.Parse()

	commands := map[string]command{
		"state":    {http.MethodGet, "/api/wallet", nil},
		"create":   {http.MethodPost, "/api/wallet/create", nil},
		"delete":   {http.MethodPost, "/api/wallet/delete", nil},
		"export":   {http.MethodGet, "/api/wallet/export", nil},
		"receive":  {http.MethodGet, "/api/wallet/receive", nil},
		"networks": {http.MethodGet, "/api/networks", nil},
		"balance":  {http.MethodPost, "/api/balance/refresh", nil},
		"history":  {http.MethodGet, "/api/transactions", nil},
		"import": {http.MethodPost, "/api/wallet/import", func() map[string]any {
			return map[string]any{"secret": readSecret(*secret)}
		}},
		"switch": {http.MethodPost, "/api/network/switch", func() map[string]any {
			return map[string]any{"network_id": *networkID}
		}},
		"send": {http.MethodPost, "/api/transaction/send", func() map[string]any {
			return map[string]any{"to_address": *to, "amount": *amount}
		}},
		"status": {http.MethodGet, "/api/transaction/status?hash=" + url.QueryEscape(*hash), nil},
	}

	c, ok := commands[*cmd]
	if !ok {
		log.Fatalf("错误: 未知命令 %q", *cmd)
	}

	// 2. 准备请求数据
	var body io.Reader
	if c.body != nil {
		jsonData, err := json.Marshal(c.body())
		if err != nil {
			log.Fatalf("错误: 无法打包 JSON 数据: %v", err)
		}
		body = bytes.NewReader(jsonData)
	}

	// 3. 创建并发送 HTTP 请求
	target := strings.TrimRight(*server, "/") + c.path
	req, err := http.NewRequest(c.method, target, body)
	if err != nil {
		log.Fatalf("错误: 无法创建请求: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("错误: 发送请求失败: %v", err)
	}
	defer resp.Body.Close()

	// 4. 读取并打印响应结果
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("错误: 读取响应体失败: %v", err)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, respBody, "", "  ") == nil {
		respBody = pretty.Bytes()
	}
	fmt.Printf("HTTP 状态码: %d\n%s\n", resp.StatusCode, respBody)
	if resp.StatusCode >= http.StatusBadRequest {
		os.Exit(1)
	}
}

// readSecret 不回显地读取助记词或私钥
func readSecret(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("错误: 读取标准输入失败: %v", err)
		}
		return strings.TrimSpace(string(data))
	}

	fmt.Fprint(os.Stderr, "请输入助记词或私钥: ")
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("错误: 读取输入失败: %v", err)
	}
	return strings.TrimSpace(string(data))
}
