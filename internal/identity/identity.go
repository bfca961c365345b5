// Package identity 呼び出し元のIPアドレスを求める。
//
// 得られた値はコメントの表示用IP、投稿の連投制限、いいねの重複排除、
// コメント削除時の本人確認に使われる。ヘッダーはクライアントが自由に
// 設定でき、NATやプロキシの背後では複数の利用者が同じ値になるため、
// 弱い識別子であることに注意。
package identity

import (
	"net"
	"net/http"
	"strings"
)

// Fallback どの情報からもIPを得られない場合の値
const Fallback = "127.0.0.1"

const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
	HeaderCFConnecting = "CF-Connecting-IP"
)

// Resolve リクエストから呼び出し元のIPを求める。先に見つかったものを採用する
//  1. X-Forwarded-For の先頭
//  2. X-Real-IP
//  3. CF-Connecting-IP
//  4. 接続元アドレス
//  5. 127.0.0.1
func Resolve(r *http.Request) string {
	if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get(HeaderRealIP)); realIP != "" {
		return realIP
	}

	if cfIP := strings.TrimSpace(r.Header.Get(HeaderCFConnecting)); cfIP != "" {
		return cfIP
	}

	if addr := remoteHost(r.RemoteAddr); addr != "" {
		return addr
	}

	return Fallback
}

// remoteHost "host:port" 形式ならホスト部分だけを返す
func remoteHost(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
