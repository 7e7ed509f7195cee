package teleapp

import (
	"fmt"
	"path/filepath"

	"github.com/fachebot/bioai-trend-bot/internal/logger"

	"github.com/zelenin/go-tdlib/client"
)

// TeleApp 以用户身份登录 Telegram，仅用于投递周报
type TeleApp struct {
	user       *client.User
	tdClient   *client.Client
	parameters *client.SetTdlibParametersRequest
}

func NewApp(apiId int32, apiHash, dataDir string) *TeleApp {
	_, err := client.SetLogVerbosityLevel(&client.SetLogVerbosityLevelRequest{
		NewVerbosityLevel: 1,
	})
	if err != nil {
		logger.Fatalf("[TeleApp] 设置日志级别错误, %s", err)
	}

	parameters := &client.SetTdlibParametersRequest{
		UseTestDc:           false,
		DatabaseDirectory:   filepath.Join(dataDir, ".tdlib", "database"),
		FilesDirectory:      filepath.Join(dataDir, ".tdlib", "files"),
		UseFileDatabase:     false,
		UseChatInfoDatabase: true,
		UseMessageDatabase:  false,
		UseSecretChats:      false,
		ApiId:               apiId,
		ApiHash:             apiHash,
		SystemLanguageCode:  "en",
		DeviceModel:         "Server",
		SystemVersion:       "1.0.0",
		ApplicationVersion:  "1.0.0",
	}

	return &TeleApp{parameters: parameters}
}

func (app *TeleApp) Login(options ...client.Option) (*client.User, error) {
	if app.user != nil {
		return app.user, nil
	}

	authorizer := client.ClientAuthorizer(app.parameters)
	go client.CliInteractor(authorizer)

	tdlibClient, err := client.NewClient(authorizer, options...)
	if err != nil {
		return nil, err
	}

	me, err := tdlibClient.GetMe()
	if err != nil {
		return nil, err
	}

	app.user = me
	app.tdClient = tdlibClient
	return me, nil
}

// CheckChats 确认周报接收聊天均可访问，TDLib 需先加载聊天列表才能按 ID 获取
func (app *TeleApp) CheckChats(chatIds []int64) error {
	if app.tdClient == nil {
		return fmt.Errorf("TeleApp 尚未登录")
	}

	if _, err := app.tdClient.GetChats(&client.GetChatsRequest{Limit: 100}); err != nil {
		logger.Warnf("[TeleApp] 获取聊天列表失败: %v", err)
	}

	for _, chatId := range chatIds {
		chat, err := app.tdClient.GetChat(&client.GetChatRequest{ChatId: chatId})
		if err != nil {
			return fmt.Errorf("获取聊天信息失败, id: %d, %w", chatId, err)
		}
		logger.Infof("[TeleApp] 周报接收聊天: %s[%d]", chat.Title, chat.Id)
	}
	return nil
}

func (app *TeleApp) Client() *client.Client {
	return app.tdClient
}

func (app *TeleApp) Close() error {
	if app.tdClient == nil {
		return nil
	}

	_, err := app.tdClient.Close()
	return err
}
