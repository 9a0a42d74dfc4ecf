package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はディスカバリーAPIサーバーを起動する。
	CommandServe Command = "serve"
	// CommandMigrate はスキーマとインデックスのマイグレーションを適用する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中サーバーの /health を叩く。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// commands は受け付けるサブコマンドと、Configの読み込みが必要かどうか。
var commands = map[Command]bool{
	CommandServe:       true,
	CommandMigrate:     true,
	CommandHealthcheck: false,
}

// RequiresConfig は環境変数からのConfig読み込みとログ初期化が必要なコマンドかを返す。
func (c Command) RequiresConfig() bool {
	return commands[c]
}

// ParseCommand はコマンドライン引数の先頭からサブコマンドを解析する。
// 引数が空の場合はCommandServeを返す。
// サポート外の名前の場合もCommandServeを返し、knownはfalseになる。
func ParseCommand(args []string) (cmd Command, known bool) {
	if len(args) == 0 {
		return CommandServe, true
	}
	if _, ok := commands[Command(args[0])]; ok {
		return Command(args[0]), true
	}
	return CommandServe, false
}
