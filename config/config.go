package config

// Initialize 触发本目录下所有配置文件的 init() 注册
// main 包在解析命令行参数之前加载，保证配置注册先于读取
func Initialize() {
}
