// Package chatbot answers support questions from a fixed rule table.
// Matching is keyword based and runs entirely in process; there is no
// external AI or network dependency.
package chatbot

import "strings"

type rule struct {
	match    func(string) bool
	response string
}

func contains(message string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(message, word) {
			return true
		}
	}
	return false
}

var rules = []rule{
	{
		match: func(m string) bool { return contains(m, "fund", "wallet", "deposit") },
		response: "To fund your wallet:\n\n1. Go to 'Fund Wallet' from the dashboard\n2. Enter the amount (minimum ₦1,000)\n3. You'll see our account details on screen\n4. Make the transfer\n5. Click 'I've made payment'\n\nYour wallet will be credited once payment is confirmed!",
	},
	{
		match: func(m string) bool {
			return strings.Contains(m, "minimum") && contains(m, "fund", "amount")
		},
		response: "The minimum wallet funding amount is ₦1,000. This ensures efficient processing of your transactions.",
	},
	{
		match: func(m string) bool {
			return strings.Contains(m, "airtime") && contains(m, "buy", "purchase", "how")
		},
		response: "To buy airtime:\n\n1. Click 'Buy Airtime' from your dashboard\n2. Select your network (MTN, Glo, Airtel, or 9mobile)\n3. Enter the phone number\n4. Enter the amount (minimum ₦50)\n5. Review the discount and click 'Buy Airtime'\n\nYou'll save money with our discounted rates!",
	},
	{
		match: func(m string) bool {
			return strings.Contains(m, "data") && contains(m, "buy", "purchase", "how")
		},
		response: "To buy data:\n\n1. Click 'Buy Data' from your dashboard\n2. Select your network\n3. Browse through categories: SME, Direct Data, Gifting, Corporate Gifting\n4. Choose your preferred data plan\n5. Enter phone number and confirm\n\nWe have extensive data plans at very cheap rates!",
	},
	{
		match: func(m string) bool { return contains(m, "sme", "direct", "gifting", "corporate") },
		response: "We offer different data plan types:\n\n• SME Data - Most affordable, great for regular use\n• Direct Data - Fast activation, reliable\n• Gifting Data - Can be gifted to others\n• Corporate Gifting - Bulk data for businesses\n\nEach type has different prices and validity periods. Check our Data Plans page to compare!",
	},
	{
		match: func(m string) bool { return contains(m, "transaction", "payment", "failed", "pending") },
		response: "For transaction issues:\n\n• Pending: Wait 5-10 minutes for confirmation\n• Failed: Check your wallet balance and try again\n• Missing credit: Contact support with transaction details\n\nYou can view all transactions in 'Transaction History' from your dashboard.",
	},
	{
		match: func(m string) bool { return contains(m, "account", "login", "sign") },
		response: "To access your account:\n\n1. Click 'Login' or 'Get Started' on the homepage\n2. Sign in with your email and password\n3. New here? Register in seconds\n\nYour wallet balance and transaction history are always saved!",
	},
	{
		match: func(m string) bool { return contains(m, "balance", "check wallet") },
		response: "Your wallet balance is displayed prominently on your dashboard. You can also see it at the top of the Airtime and Data purchase pages.\n\nTo add funds, click 'Fund Wallet' from any page!",
	},
	{
		match: func(m string) bool { return contains(m, "where", "find", "navigate", "go to") },
		response: "Quick navigation guide:\n\n• Dashboard - Main page with wallet balance\n• Fund Wallet - Add money to your account\n• Buy Airtime - Purchase airtime for any network\n• Buy Data - Browse and purchase data plans\n• Transactions - View your transaction history\n• Support - You're here!",
	},
	{
		match: func(m string) bool { return contains(m, "discount", "save", "cheap", "rate") },
		response: "We offer the cheapest rates in Nigeria!\n\n• Airtime: Save 2-5% on all networks\n• Data: Save up to 15% on SME and other plans\n\nYou can see the exact discount percentage and savings amount before each purchase.",
	},
	{
		match: func(m string) bool { return contains(m, "network", "mtn", "glo", "airtel", "9mobile") },
		response: "We support all major Nigerian networks:\n\n• MTN\n• Glo\n• Airtel\n• 9mobile\n\nAll networks have discounted airtime and extensive data plans available!",
	},
	{
		match: func(m string) bool { return contains(m, "help", "support", "contact", "issue") },
		response: "I'm here to help! You can ask me about:\n\n• Wallet funding\n• Buying airtime\n• Purchasing data\n• Transaction issues\n• Account management\n• Navigation help\n• Discount rates\n\nJust type your question and I'll assist you!",
	},
	{
		match: func(m string) bool { return contains(m, "hello", "hi", "hey") },
		response: "Hello! Welcome to XtraData support!\n\nI'm here to help you with:\n• Wallet funding\n• Airtime & data purchases\n• Transaction queries\n• Account questions\n\nWhat would you like to know?",
	},
}

const defaultResponse = "I'm here to help! Here are some things I can assist you with:\n\n• How to fund your wallet\n• Buying airtime and data\n• Understanding data plan types (SME, Direct, etc.)\n• Transaction issues\n• Account and navigation help\n• Discount rates and savings\n\nPlease ask me a specific question about any of these topics!"

// Respond returns the first matching canned answer. Rules are ordered by
// specificity; the fallback invites a narrower question.
func Respond(message string) string {
	normalized := strings.ToLower(message)
	for _, r := range rules {
		if r.match(normalized) {
			return r.response
		}
	}
	return defaultResponse
}
