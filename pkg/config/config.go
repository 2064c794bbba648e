// Package config 负责配置信息的加载与读取
package config

import (
	"os"

	"github.com/spf13/cast"
	viperlib "github.com/spf13/viper"
)

// viper 实例，Viper 库本身不是并发安全的，仅在启动阶段写入
var viper *viperlib.Viper

// ConfigFunc 动态加载配置信息的函数类型
type ConfigFunc func() map[string]interface{}

// ConfigFuncs 各个 config/*.go 文件的 init() 将配置注册到此处
var ConfigFuncs map[string]ConfigFunc

func init() {
	// 初始化 viper 实例
	viper = viperlib.New()

	// 环境变量文件类型
	viper.SetConfigType("env")

	// 环境变量前缀，用于区分系统的环境变量
	viper.SetEnvPrefix("appenv")

	// 读取系统环境变量
	viper.AutomaticEnv()

	ConfigFuncs = make(map[string]ConfigFunc)
}

// InitConfig 初始化配置信息，完成对环境变量以及 config 信息的加载
func InitConfig(env string) {
	// 加载环境变量文件
	loadEnv(env)
	// 注册配置信息
	loadConfig()
}

// loadConfig 将注册的配置项写入 viper
func loadConfig() {
	for name, fn := range ConfigFuncs {
		viper.Set(name, fn())
	}
}

// loadEnv 加载 .env 环境变量文件
func loadEnv(envSuffix string) {
	// 默认加载 .env 文件，如果有传参 --env=name 的话，加载 .env.name 文件
	envPath := ".env"
	if len(envSuffix) > 0 {
		filepath := ".env." + envSuffix
		if _, err := os.Stat(filepath); err == nil {
			envPath = filepath
		}
	}

	// 允许 .env 文件不存在（例如生产环境直接使用系统环境变量）
	viper.SetConfigName(envPath)
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()

	// 监控 .env 文件，变更时重新加载
	viper.WatchConfig()
}

// Env 读取环境变量，支持默认值
func Env(envName string, defaultValue ...interface{}) interface{} {
	if len(defaultValue) > 0 {
		return internalGet(envName, defaultValue[0])
	}
	return internalGet(envName)
}

// Add 注册配置项
func Add(name string, configFn ConfigFunc) {
	ConfigFuncs[name] = configFn
}

// Get 获取配置项（支持 app.name 这样的点分隔路径）
func Get(path string, defaultValue ...interface{}) string {
	return GetString(path, defaultValue...)
}

func internalGet(path string, defaultValue ...interface{}) interface{} {
	// config 或者环境变量不存在的情况下返回默认值
	if !viper.IsSet(path) || isEmpty(viper.Get(path)) {
		if len(defaultValue) > 0 {
			return defaultValue[0]
		}
		return nil
	}
	return viper.Get(path)
}

// isEmpty 判断取到的配置值是否为空
func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// GetString 获取 String 类型的配置信息
func GetString(path string, defaultValue ...interface{}) string {
	return cast.ToString(internalGet(path, defaultValue...))
}

// GetInt 获取 Int 类型的配置信息
func GetInt(path string, defaultValue ...interface{}) int {
	return cast.ToInt(internalGet(path, defaultValue...))
}

// GetInt64 获取 Int64 类型的配置信息
func GetInt64(path string, defaultValue ...interface{}) int64 {
	return cast.ToInt64(internalGet(path, defaultValue...))
}

// GetFloat64 获取 float64 类型的配置信息
func GetFloat64(path string, defaultValue ...interface{}) float64 {
	return cast.ToFloat64(internalGet(path, defaultValue...))
}

// GetBool 获取 Bool 类型的配置信息
func GetBool(path string, defaultValue ...interface{}) bool {
	return cast.ToBool(internalGet(path, defaultValue...))
}

// GetStringMapString 获取结构数据
func GetStringMapString(path string) map[string]string {
	return viper.GetStringMapString(path)
}
